package handlers

import (
	"context"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/gatebot/internal/broadcast"
	"github.com/Proton-105/gatebot/internal/registry"
)

// Handler processes bot commands.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// AccessGate decides whether a user may reach gated features.
type AccessGate interface {
	IsAllowed(ctx context.Context, userID int64) bool
}

// UserDirectory exposes the known users to the admin command.
type UserDirectory interface {
	IDs(ctx context.Context) ([]int64, error)
	Stats(ctx context.Context) (registry.Stats, error)
}

// Broadcaster relays one message to many users.
type Broadcaster interface {
	Broadcast(ctx context.Context, payload telebot.Editable, targets []int64) *broadcast.Job
}

// Keyboards renders the inline keyboards attached to replies.
type Keyboards interface {
	SubscribePrompt() *telebot.ReplyMarkup
	Unlocked() *telebot.ReplyMarkup
}
