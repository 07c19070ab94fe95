package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CallbackDataSeparator  = ":"
	CallbackDataLimitBytes = 64

	// telebot prefixes callback data of its own unique buttons with \f and
	// separates the payload with |.
	telebotUniquePrefix    = "\f"
	telebotUniqueSeparator = "|"
)

// EncodeCallback joins a handler identifier and an optional payload into callback data.
func EncodeCallback(unique, data string) (string, error) {
	if unique == "" {
		return "", errors.New("callback identifier is empty")
	}

	payload := unique
	if data != "" {
		payload = unique + CallbackDataSeparator + data
	}

	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("callback data exceeds %d byte limit: got %d", CallbackDataLimitBytes, len(payload))
	}

	return payload, nil
}

// DecodeCallback splits callback data into its identifier and payload. Data
// produced by telebot's own unique buttons is accepted as well.
func DecodeCallback(callbackData string) (unique, data string, err error) {
	if strings.HasPrefix(callbackData, telebotUniquePrefix) {
		callbackData = strings.TrimPrefix(callbackData, telebotUniquePrefix)
		if head, tail, found := strings.Cut(callbackData, telebotUniqueSeparator); found {
			return head, tail, nil
		}
	}

	if callbackData == "" {
		return "", "", errors.New("callback data is empty")
	}

	head, tail, _ := strings.Cut(callbackData, CallbackDataSeparator)
	return head, tail, nil
}
