package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"
)

// NewStartHandler greets the user and shows the subscribe prompt. It never
// consults the gate, so subscribers see the prompt too.
func NewStartHandler(kb Keyboards, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		sender := c.Sender()
		if sender == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		if err := reply(c, Greeting(sender), kb.SubscribePrompt()); err != nil {
			log.Error("failed to send greeting", slog.Int64("user_id", sender.ID), slog.Any("error", err))
			return err
		}

		return nil
	}
}
