package handlers

import (
	telebot "gopkg.in/telebot.v3"
)

// NewHelpHandler replies with the static help text.
func NewHelpHandler() Handler {
	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}
		return reply(c, TextHelp)
	}
}
