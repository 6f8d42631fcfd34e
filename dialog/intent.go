// Package dialog maps one incoming chat message to exactly one action.
//
// Routing is split in two independently testable steps: Classify turns a
// message into an Intent using only the message's own text, and
// Router.Dispatch performs the backend calls for that intent and renders
// the reply. No state is carried between messages.
package dialog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/0xVanfer/shadownet-bot/config"
)

// StartCommand is the command that greets and registers the user.
const StartCommand = "start"

// Kind is the classified purpose of a message.
type Kind int

const (
	// KindFallback is any message no other rule matches.
	KindFallback Kind = iota
	// KindStart is the /start command.
	KindStart
	// KindTariffs lists the tariffs.
	KindTariffs
	// KindKeys lists the user's keys.
	KindKeys
	// KindSupport shows the support contacts.
	KindSupport
	// KindPay creates a payment for the tariff number in the message.
	KindPay
)

// String returns the lowercase name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindTariffs:
		return "tariffs"
	case KindKeys:
		return "keys"
	case KindSupport:
		return "support"
	case KindPay:
		return "pay"
	default:
		return "fallback"
	}
}

// Message is a normalized incoming chat message.
type Message struct {
	ChatID   int64
	UserID   int64  // platform-assigned, stable
	Username string // may be empty
	Text     string
}

// Intent is the result of classifying a Message.
type Intent struct {
	Kind     Kind
	TariffID int64 // KindPay only
	// Invalid is set for KindPay when the digits do not fit a tariff id.
	Invalid bool
}

// Labels maps exact menu button texts to the intent they trigger.
type Labels map[string]Kind

// DefaultLabels returns the labels of the default menu.
func DefaultLabels() Labels {
	return Labels{
		"Купить VPN": KindTariffs,
		"Профиль":    KindKeys,
		"Поддержка":  KindSupport,
	}
}

// LabelsFromMenu builds Labels from a menu configuration.
func LabelsFromMenu(menu config.MenuConfig) (Labels, error) {
	labels := make(Labels)
	for text, action := range menu.Actions() {
		kind, err := ParseAction(action)
		if err != nil {
			return nil, err
		}
		labels[text] = kind
	}
	return labels, nil
}

// ParseAction converts a configured menu action to a Kind.
func ParseAction(action string) (Kind, error) {
	switch action {
	case config.ActionTariffs:
		return KindTariffs, nil
	case config.ActionKeys:
		return KindKeys, nil
	case config.ActionSupport:
		return KindSupport, nil
	}
	return KindFallback, fmt.Errorf("unknown menu action %q", action)
}

// Classify returns the intent of a message. Rules are applied in order:
// the start command, an exact menu label, a trimmed all-digit text, fallback.
// A bare number is always a payment request, whether or not a tariff list was shown before.
// botUsername is the bot's own username, used to accept /start@botUsername.
func Classify(msg Message, labels Labels, botUsername string) Intent {
	if IsCommand(msg.Text, StartCommand, botUsername) {
		return Intent{Kind: KindStart}
	}

	if kind, ok := labels[msg.Text]; ok {
		return Intent{Kind: kind}
	}

	trimmed := strings.TrimSpace(msg.Text)
	if isDigits(trimmed) {
		id, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return Intent{Kind: KindPay, Invalid: true}
		}
		return Intent{Kind: KindPay, TariffID: id}
	}

	return Intent{Kind: KindFallback}
}

// IsCommand reports whether text is /command, optionally followed by arguments.
// A command addressed as /command@name matches only when name is botUsername
// (case-insensitive); with an empty botUsername addressed commands never match.
func IsCommand(text, command, botUsername string) bool {
	if text == "" || text[0] != '/' {
		return false
	}

	// Parse command and arguments
	parts := strings.SplitN(text, " ", 2)
	name := strings.TrimPrefix(parts[0], "/")

	// Check the @botname suffix if present
	if idx := strings.Index(name, "@"); idx != -1 {
		mention := name[idx+1:]
		if botUsername == "" || !strings.EqualFold(mention, botUsername) {
			return false
		}
		name = name[:idx]
	}
	return name == command
}

// isDigits reports whether s is non-empty and made only of ASCII decimal digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
