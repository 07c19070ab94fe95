// Package membership looks up a user's relationship to the gating channel.
package membership

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/gatebot/internal/errors"
	"github.com/Proton-105/gatebot/pkg/metrics"
)

// Status is the normalized membership of a user in the channel.
type Status int

const (
	// StatusOther covers non-members, restricted, left and kicked users, and
	// any lookup that failed.
	StatusOther Status = iota
	StatusMember
	StatusAdministrator
	StatusCreator
)

func (s Status) String() string {
	switch s {
	case StatusMember:
		return "member"
	case StatusAdministrator:
		return "administrator"
	case StatusCreator:
		return "creator"
	default:
		return "other"
	}
}

// Subscribed reports whether s unlocks the bot.
func (s Status) Subscribed() bool {
	switch s {
	case StatusMember, StatusAdministrator, StatusCreator:
		return true
	default:
		return false
	}
}

// MemberFetcher is the subset of telebot.Bot used for lookups.
type MemberFetcher interface {
	ChatMemberOf(chat, user telebot.Recipient) (*telebot.ChatMember, error)
}

type chatRecipient string

func (c chatRecipient) Recipient() string { return string(c) }

type userRecipient int64

func (u userRecipient) Recipient() string { return strconv.FormatInt(int64(u), 10) }

// Verifier checks channel membership with a single platform call per check.
type Verifier struct {
	api     MemberFetcher
	channel string
	log     *slog.Logger
}

// NewVerifier creates a Verifier for channel, which may be an @username or a numeric chat id.
func NewVerifier(api MemberFetcher, channel string, log *slog.Logger) *Verifier {
	if log == nil {
		log = slog.Default()
	}

	return &Verifier{
		api:     api,
		channel: channel,
		log:     log,
	}
}

// Verify returns the user's status. Lookup failures are logged and reported
// as StatusOther; they are never returned to the caller.
func (v *Verifier) Verify(ctx context.Context, userID int64) Status {
	if v == nil || v.api == nil {
		return StatusOther
	}

	member, err := v.api.ChatMemberOf(chatRecipient(v.channel), userRecipient(userID))
	if err != nil {
		reason := failureReason(err)
		appErr := apperrors.NewVerificationError(v.channel, userID, err)
		v.log.WarnContext(ctx, "membership check failed",
			slog.String("code", appErr.Code),
			slog.Int64("user_id", userID),
			slog.String("channel", v.channel),
			slog.String("reason", reason),
			slog.Any("error", err),
		)
		metrics.RecordMembershipCheck("error_" + reason)
		return StatusOther
	}

	status := FromRole(member)
	metrics.RecordMembershipCheck(status.String())

	return status
}

// FromRole maps a platform chat member onto Status.
func FromRole(member *telebot.ChatMember) Status {
	if member == nil {
		return StatusOther
	}

	switch member.Role {
	case telebot.Member:
		return StatusMember
	case telebot.Administrator:
		return StatusAdministrator
	case telebot.Creator:
		return StatusCreator
	default:
		return StatusOther
	}
}

// failureReason labels a lookup error for logs and metrics only; every
// reason is treated the same way by the gate.
func failureReason(err error) string {
	if _, ok := apperrors.FloodWait(err); ok {
		return "flood"
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return "network"
	}

	return "api"
}
