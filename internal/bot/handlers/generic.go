package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"
)

// NewFeatureHandler is the placeholder for the gated feature.
func NewFeatureHandler() Handler {
	return func(c telebot.Context) error {
		return reply(c, TextFeaturePending)
	}
}

// NewGenericHandler handles every update no other handler claims. Blocked
// users get the subscribe prompt; subscribers reach feature.
func NewGenericHandler(gate AccessGate, kb Keyboards, feature Handler, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}
	if feature == nil {
		feature = NewFeatureHandler()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		if err := respondCallback(c, "", false); err != nil {
			log.Warn("failed to answer callback", slog.Any("error", err))
		}

		sender := c.Sender()
		if sender == nil {
			log.Debug("generic update without sender ignored")
			return nil
		}

		if !gate.IsAllowed(RequestContext(c), sender.ID) {
			return reply(c, TextGenericBlocked, kb.SubscribePrompt())
		}

		return feature(c)
	}
}
