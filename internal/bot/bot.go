// Package bot wires the telebot transport to the access-gated handlers.
package bot

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/gatebot/internal/bot/event"
	"github.com/Proton-105/gatebot/internal/bot/handlers"
	"github.com/Proton-105/gatebot/internal/bot/keyboard"
	"github.com/Proton-105/gatebot/internal/broadcast"
	errors "github.com/Proton-105/gatebot/internal/errors"
	"github.com/Proton-105/gatebot/internal/gate"
	"github.com/Proton-105/gatebot/internal/membership"
	"github.com/Proton-105/gatebot/internal/middleware"
	"github.com/Proton-105/gatebot/internal/registry"
	"github.com/Proton-105/gatebot/pkg/config"
)

// Commands advertised in the client command menu.
var Commands = []telebot.Command{
	{Text: "start", Description: "Start the bot"},
	{Text: "help", Description: "How to use the bot"},
}

// Dependencies are the collaborators the router's handlers need.
type Dependencies struct {
	AdminID    int64
	Gate       handlers.AccessGate
	Users      handlers.UserDirectory
	Toucher    UserToucher
	Fanout     handlers.Broadcaster
	Keyboard   handlers.Keyboards
	ErrHandler *errors.Handler
	// Feature serves subscribers on generic updates. Nil selects the placeholder.
	Feature handlers.Handler
}

// NewConfiguredRouter builds the router with the full middleware chain and
// one handler per event kind.
func NewConfiguredRouter(deps Dependencies, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	r := NewRouter(log)

	r.Use(RecoveryMiddleware(log, deps.ErrHandler))
	r.Use(ErrorHandlingMiddleware(deps.ErrHandler))
	r.Use(LoggingMiddleware(log))
	r.Use(RegistryMiddleware(deps.Toucher))
	r.Use(middleware.Metrics)

	r.Handle(event.Start, handlers.NewStartHandler(deps.Keyboard, log))
	r.Handle(event.CheckSubscription, handlers.Handler(handlers.NewRecheckHandler(deps.Gate, deps.Keyboard, log)))
	r.Handle(event.Help, handlers.NewHelpHandler())
	r.Handle(event.Admin, handlers.NewAdminHandler(deps.AdminID, deps.Users, deps.Fanout, log))
	r.Handle(event.Back, handlers.Handler(handlers.NewBackHandler(deps.Keyboard, log)))
	r.Handle(event.Generic, handlers.NewGenericHandler(deps.Gate, deps.Keyboard, deps.Feature, log))

	return r
}

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot *telebot.Bot
	log     *slog.Logger
	cfg     config.Config
	router  *Router
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.Config, log *slog.Logger, users *registry.Registry) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		Token: cfg.Bot.Token,
		OnError: func(err error, c telebot.Context) {
			log.Error("telebot error", slog.Any("error", err))
		},
	}

	if cfg.Bot.Mode == config.ModeWebhook {
		settings.Poller = &telebot.Webhook{
			Listen:   cfg.Bot.Listen,
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.Bot.Timeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	deps := Dependencies{
		AdminID:    cfg.Access.AdminID,
		Gate:       gate.New(membership.NewVerifier(tb, cfg.Access.Channel, log)),
		Users:      users,
		Toucher:    users,
		Fanout:     broadcast.NewFanout(tb, cfg.Broadcast.MaxRetries, log),
		Keyboard:   keyboard.NewBuilder(cfg.Access.ChannelLink(), cfg.Access.FeatureURL, log),
		ErrHandler: errors.NewHandler(log, cfg.Sentry.Enabled),
	}

	b := &Bot{
		telebot: tb,
		log:     log,
		cfg:     cfg,
		router:  NewConfiguredRouter(deps, log),
	}

	b.registerTelebotHandlers()

	return b, nil
}

// Start prepares the transport and runs the telegram bot event loop. It blocks until Stop.
func (b *Bot) Start() {
	if b.telebot == nil {
		return
	}

	if b.cfg.Bot.Mode != config.ModeWebhook {
		// A leftover webhook makes getUpdates fail.
		if err := b.telebot.RemoveWebhook(); err != nil {
			b.log.Warn("failed to remove webhook before polling", slog.Any("error", err))
		}
	}

	if err := b.telebot.SetCommands(Commands); err != nil {
		b.log.Warn("failed to set bot commands", slog.Any("error", err))
	}

	b.log.Info("telegram bot started", slog.String("mode", b.cfg.Bot.Mode), slog.String("channel", b.cfg.Access.Channel))
	b.telebot.Start()
}

// Stop gracefully stops the telegram bot, deregistering the webhook first in webhook mode.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")

	if b.cfg.Bot.Mode == config.ModeWebhook {
		if err := b.telebot.RemoveWebhook(); err != nil {
			b.log.Warn("failed to remove webhook", slog.Any("error", err))
		}
	}

	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	for _, endpoint := range []string{
		telebot.OnText,
		telebot.OnCallback,
		telebot.OnMedia,
		telebot.OnContact,
		telebot.OnLocation,
		telebot.OnVenue,
		telebot.OnDice,
		telebot.OnPoll,
	} {
		b.telebot.Handle(endpoint, b.router.Route)
	}
}
