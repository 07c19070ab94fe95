package errors

import (
	"fmt"
	"time"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	CodeInternal                = "E200"
	CodeVerificationUnavailable = "E300"
	CodeRecipientUnreachable    = "E320"
	CodeUnauthorizedAdmin       = "E410"
	CodeFloodWait               = "E500"
)

const defaultUserMessage = "Something went wrong. Please try again later."

type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	RetryAfter  time.Duration
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func NewInternalError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        CodeInternal,
		Message:     fmt.Sprintf("internal error: %s", underlyingMsg),
		UserMessage: defaultUserMessage,
		Severity:    SeverityHigh,
		Retryable:   false,
		cause:       cause,
	}
}

// NewVerificationError wraps a failed channel membership lookup.
func NewVerificationError(channel string, userID int64, cause error) *AppError {
	return &AppError{
		Code:        CodeVerificationUnavailable,
		Message:     fmt.Sprintf("membership check in %s for user %d failed", channel, userID),
		UserMessage: "Please subscribe to our channel to use the bot.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

func NewUnauthorizedAdminError(userID int64) *AppError {
	return &AppError{
		Code:        CodeUnauthorizedAdmin,
		Message:     fmt.Sprintf("user %d is not the administrator", userID),
		UserMessage: "You are not authorized to use this command.",
		Severity:    SeverityLow,
		Retryable:   false,
	}
}

// NewRecipientError wraps a relay failure for a single broadcast target.
func NewRecipientError(userID int64, cause error) *AppError {
	return &AppError{
		Code:      CodeRecipientUnreachable,
		Message:   fmt.Sprintf("recipient %d unreachable", userID),
		Severity:  SeverityLow,
		Retryable: false,
		cause:     cause,
	}
}

// NewFloodError marks a platform rejection that may be retried after retryAfter.
func NewFloodError(retryAfter time.Duration, cause error) *AppError {
	return &AppError{
		Code:        CodeFloodWait,
		Message:     fmt.Sprintf("flood control exceeded: retry after %s", retryAfter),
		UserMessage: fmt.Sprintf("Too many requests. Try again in %d seconds.", int(retryAfter.Seconds())),
		Severity:    SeverityLow,
		Retryable:   true,
		RetryAfter:  retryAfter,
		cause:       cause,
	}
}
