// Package event classifies inbound updates into the kinds the bot routes on.
package event

import (
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/gatebot/internal/bot/keyboard"
)

// Kind is the routing class of an inbound update.
type Kind int

const (
	// Generic covers every update that matches no other kind.
	Generic Kind = iota
	Start
	CheckSubscription
	Help
	Admin
	Back
)

// Command tokens recognised in message text.
const (
	CommandStart = "/start"
	CommandHelp  = "/help"
	CommandAdmin = "/admin"
)

// Kinds lists every Kind in routing priority order.
var Kinds = []Kind{Start, CheckSubscription, Help, Admin, Back, Generic}

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case CheckSubscription:
		return "check_subscription"
	case Help:
		return "help"
	case Admin:
		return "admin"
	case Back:
		return "back"
	case Generic:
		return "generic"
	default:
		return "unknown"
	}
}

// Classify maps an update onto its Kind. Rules apply in priority order;
// anything unrecognised is Generic.
func Classify(c telebot.Context) Kind {
	if c == nil {
		return Generic
	}

	command := commandOf(c)
	callback := callbackOf(c)

	switch {
	case command == CommandStart:
		return Start
	case callback == keyboard.UniqueCheckSubscription:
		return CheckSubscription
	case command == CommandHelp:
		return Help
	case command == CommandAdmin:
		return Admin
	case callback == keyboard.UniqueBack:
		return Back
	default:
		return Generic
	}
}

// ParseCommand extracts the command token from message text, dropping any
// @botname suffix and arguments. It returns "" for non-command text.
func ParseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}

	token, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(token)
}

func commandOf(c telebot.Context) string {
	if c.Callback() != nil {
		return ""
	}

	msg := c.Message()
	if msg == nil {
		return ""
	}

	return ParseCommand(msg.Text)
}

func callbackOf(c telebot.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	if cb.Unique != "" {
		return cb.Unique
	}

	unique, _, err := keyboard.DecodeCallback(cb.Data)
	if err != nil {
		return ""
	}

	return unique
}
