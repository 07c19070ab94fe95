package keyboard

import (
	"fmt"

	telebot "gopkg.in/telebot.v3"
)

// InlineButton represents a lightweight inline keyboard button definition used by the builder.
// Exactly one of URL, WebApp or Unique should be set.
type InlineButton struct {
	Text   string
	Unique string // Identifier that differentiates callback handlers.
	Data   string // Payload that will be encoded into callback data.
	URL    string // External link opened by the client.
	WebApp string // Mini app URL opened inside the client.
}

// InlineKeyboardBuilder accumulates rows of InlineButton definitions before rendering telebot markup.
type InlineKeyboardBuilder struct {
	rows [][]InlineButton
}

// NewInlineKeyboard creates a builder instance backed by inline reply markup.
func NewInlineKeyboard() *InlineKeyboardBuilder {
	return &InlineKeyboardBuilder{
		rows: make([][]InlineButton, 0),
	}
}

// AddRow appends a new row made of custom InlineButton definitions.
func (b *InlineKeyboardBuilder) AddRow(buttons ...InlineButton) *InlineKeyboardBuilder {
	if len(buttons) == 0 {
		return b
	}

	row := make([]InlineButton, len(buttons))
	copy(row, buttons)
	b.rows = append(b.rows, row)
	return b
}

// Build renders the accumulated rows, encoding callback data and enforcing the platform size limit.
func (b *InlineKeyboardBuilder) Build() (*telebot.ReplyMarkup, error) {
	inlineKeyboard := make([][]telebot.InlineButton, len(b.rows))
	for i, row := range b.rows {
		inlineKeyboard[i] = make([]telebot.InlineButton, len(row))
		for j, btn := range row {
			rendered, err := renderButton(btn)
			if err != nil {
				return nil, fmt.Errorf("row %d button %d: %w", i, j, err)
			}
			inlineKeyboard[i][j] = rendered
		}
	}

	return &telebot.ReplyMarkup{InlineKeyboard: inlineKeyboard}, nil
}

func renderButton(btn InlineButton) (telebot.InlineButton, error) {
	switch {
	case btn.URL != "":
		return telebot.InlineButton{Text: btn.Text, URL: btn.URL}, nil
	case btn.WebApp != "":
		return telebot.InlineButton{Text: btn.Text, WebApp: &telebot.WebApp{URL: btn.WebApp}}, nil
	default:
		data, err := EncodeCallback(btn.Unique, btn.Data)
		if err != nil {
			return telebot.InlineButton{}, err
		}
		return telebot.InlineButton{Text: btn.Text, Data: data}, nil
	}
}
