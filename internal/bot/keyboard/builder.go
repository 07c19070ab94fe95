package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"
)

// Callback identifiers carried by inline buttons.
const (
	UniqueCheckSubscription = "check_subscription"
	UniqueBack              = "back"
)

// Builder creates the locked and unlocked inline keyboards.
type Builder struct {
	channelURL string
	featureURL string
	log        *slog.Logger
}

// NewBuilder returns a Builder linking to channelURL and featureURL.
func NewBuilder(channelURL, featureURL string, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}

	return &Builder{
		channelURL: channelURL,
		featureURL: featureURL,
		log:        log,
	}
}

// SubscribePrompt builds the locked keyboard: a channel link and a re-check action.
func (b *Builder) SubscribePrompt() *telebot.ReplyMarkup {
	return b.build("subscribe_prompt", NewInlineKeyboard().
		AddRow(InlineButton{Text: "Subscribe to Channel", URL: b.channelURL}).
		AddRow(InlineButton{Text: "Check Subscription", Unique: UniqueCheckSubscription}),
	)
}

// Unlocked builds the keyboard shown to subscribers.
func (b *Builder) Unlocked() *telebot.ReplyMarkup {
	return b.build("unlocked", NewInlineKeyboard().
		AddRow(InlineButton{Text: "Open WebApp", WebApp: b.featureURL}).
		AddRow(InlineButton{Text: "Channel Link", URL: b.channelURL}).
		AddRow(InlineButton{Text: "Back", Unique: UniqueBack}),
	)
}

func (b *Builder) build(name string, kb *InlineKeyboardBuilder) *telebot.ReplyMarkup {
	markup, err := kb.Build()
	if err != nil {
		b.log.Error("failed to build keyboard", slog.String("keyboard", name), slog.Any("error", err))
		return &telebot.ReplyMarkup{}
	}

	return markup
}
