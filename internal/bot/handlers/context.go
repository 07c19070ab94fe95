package handlers

import (
	"context"

	telebot "gopkg.in/telebot.v3"
)

// RequestContextKey is the telebot.Context key holding the per-update context.
const RequestContextKey = "request_context"

// RequestContext returns the context attached to the update by the logging
// middleware, or a background context when none is set.
func RequestContext(c telebot.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if ctx, ok := c.Get(RequestContextKey).(context.Context); ok && ctx != nil {
		return ctx
	}
	return context.Background()
}

// SetRequestContext attaches ctx to the update.
func SetRequestContext(c telebot.Context, ctx context.Context) {
	if c == nil || ctx == nil {
		return
	}
	c.Set(RequestContextKey, ctx)
}

// reply answers the triggering message, quoting it. Callback updates have no
// user message to quote and get a plain send.
func reply(c telebot.Context, what interface{}, opts ...interface{}) error {
	if c.Callback() != nil || c.Message() == nil {
		return c.Send(what, opts...)
	}
	return c.Reply(what, opts...)
}

func respondCallback(c telebot.Context, text string, alert bool) error {
	if c == nil || c.Callback() == nil {
		return nil
	}
	if text == "" {
		return c.Respond()
	}
	return c.Respond(&telebot.CallbackResponse{
		Text:      text,
		ShowAlert: alert,
	})
}
