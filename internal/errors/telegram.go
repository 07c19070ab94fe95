package errors

import (
	"errors"
	"time"

	telebot "gopkg.in/telebot.v3"
)

// FloodWait reports whether err is a platform flood-control rejection and
// how long the platform asked to wait.
func FloodWait(err error) (time.Duration, bool) {
	var flood telebot.FloodError
	if errors.As(err, &flood) {
		return time.Duration(flood.RetryAfter) * time.Second, true
	}

	var floodPtr *telebot.FloodError
	if errors.As(err, &floodPtr) && floodPtr != nil {
		return time.Duration(floodPtr.RetryAfter) * time.Second, true
	}

	return 0, false
}

// FromRelay classifies an error returned while delivering a message to
// userID: flood rejections become retryable, everything else is terminal.
func FromRelay(userID int64, err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	if wait, ok := FloodWait(err); ok {
		return NewFloodError(wait, err)
	}

	return NewRecipientError(userID, err)
}
