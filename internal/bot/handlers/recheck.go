package handlers

import (
	"errors"
	"log/slog"

	telebot "gopkg.in/telebot.v3"
)

// NewRecheckHandler handles the "Check Subscription" button. Subscribers get
// the message edited into the unlocked menu; everyone else gets an alert and
// the message is left untouched.
func NewRecheckHandler(gate AccessGate, kb Keyboards, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		sender := c.Sender()
		if sender == nil {
			return respondCallback(c, "", false)
		}

		ctx := RequestContext(c)
		if !gate.IsAllowed(ctx, sender.ID) {
			log.Info("subscription re-check blocked", slog.Int64("user_id", sender.ID))
			return respondCallback(c, TextRecheckBlocked, true)
		}

		if err := respondCallback(c, "", false); err != nil {
			log.Warn("failed to answer callback", slog.Int64("user_id", sender.ID), slog.Any("error", err))
		}

		return editMessage(c, TextUnlocked, kb.Unlocked())
	}
}

// NewBackHandler returns the unlocked menu to the subscribe prompt.
func NewBackHandler(kb Keyboards, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		if err := respondCallback(c, "", false); err != nil {
			log.Warn("failed to answer callback", slog.Any("error", err))
		}

		if c.Sender() == nil {
			return nil
		}

		return editMessage(c, Greeting(c.Sender()), kb.SubscribePrompt())
	}
}

// editMessage treats "message is not modified" as success: the user pressed
// a button whose target content is already shown.
func editMessage(c telebot.Context, text string, markup *telebot.ReplyMarkup) error {
	err := c.Edit(text, markup)
	if err == nil || errors.Is(err, telebot.ErrSameMessageContent) {
		return nil
	}
	return err
}
