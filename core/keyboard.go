// Package core provides keyboard building functionality.
package core

import (
	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoutil"
)

// KeyboardBuilder provides a fluent interface for building reply keyboards.
type KeyboardBuilder struct {
	rows   [][]telego.KeyboardButton
	resize bool
}

// NewKeyboard creates a new keyboard builder instance.
func NewKeyboard() *KeyboardBuilder {
	return &KeyboardBuilder{
		rows: make([][]telego.KeyboardButton, 0),
	}
}

// Row adds a row of text buttons. Empty rows are skipped.
func (kb *KeyboardBuilder) Row(texts ...string) *KeyboardBuilder {
	if len(texts) == 0 {
		return kb
	}
	buttons := make([]telego.KeyboardButton, 0, len(texts))
	for _, text := range texts {
		buttons = append(buttons, telegoutil.KeyboardButton(text))
	}
	kb.rows = append(kb.rows, telegoutil.KeyboardRow(buttons...))
	return kb
}

// Resize asks clients to fit the keyboard height to its buttons.
func (kb *KeyboardBuilder) Resize(resize bool) *KeyboardBuilder {
	kb.resize = resize
	return kb
}

// Build constructs and returns the ReplyKeyboardMarkup.
// Returns nil if no buttons were added.
func (kb *KeyboardBuilder) Build() *telego.ReplyKeyboardMarkup {
	if len(kb.rows) == 0 {
		return nil
	}
	markup := telegoutil.Keyboard(kb.rows...)
	if kb.resize {
		markup = markup.WithResizeKeyboard()
	}
	return markup
}

// ReplyKeyboard builds a reply keyboard from rows of button texts.
func ReplyKeyboard(rows [][]string, resize bool) *telego.ReplyKeyboardMarkup {
	kb := NewKeyboard().Resize(resize)
	for _, row := range rows {
		kb.Row(row...)
	}
	return kb.Build()
}
