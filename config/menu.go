// Package config defines configuration structures for the shop bot.
package config

import "fmt"

// Menu button actions understood by the dialog router.
const (
	// ActionTariffs lists the available tariffs.
	ActionTariffs = "tariffs"
	// ActionKeys lists the keys purchased by the user.
	ActionKeys = "keys"
	// ActionSupport shows the support contacts.
	ActionSupport = "support"
)

// MenuConfig defines the reply keyboard attached to the greeting.
// Button labels double as the texts the dialog router matches exactly.
type MenuConfig struct {
	// Buttons defines button rows as a 2D array.
	// Each inner array represents a row of buttons.
	Buttons [][]ButtonConfig `yaml:"buttons"`

	// ResizeKeyboard asks clients to shrink the keyboard to fit its buttons.
	ResizeKeyboard bool `yaml:"resize_keyboard"`
}

// ButtonConfig defines a single reply keyboard button.
type ButtonConfig struct {
	// Text is the button label shown to users and sent back verbatim when pressed.
	Text string `yaml:"text"`

	// Action is one of ActionTariffs, ActionKeys or ActionSupport.
	Action string `yaml:"action"`
}

// NewDefaultMenuConfig returns the three-button menu: buy, profile, support.
func NewDefaultMenuConfig() MenuConfig {
	return MenuConfig{
		Buttons: [][]ButtonConfig{
			{{Text: "Купить VPN", Action: ActionTariffs}},
			{{Text: "Профиль", Action: ActionKeys}},
			{{Text: "Поддержка", Action: ActionSupport}},
		},
		ResizeKeyboard: true,
	}
}

// Validate checks that every button has a label, a known action and that labels are unique.
func (m *MenuConfig) Validate() error {
	if len(m.Buttons) == 0 {
		return fmt.Errorf("%w: no buttons", ErrInvalidMenu)
	}
	seen := make(map[string]bool)
	for _, row := range m.Buttons {
		for _, btn := range row {
			if btn.Text == "" {
				return fmt.Errorf("%w: empty button text", ErrInvalidMenu)
			}
			switch btn.Action {
			case ActionTariffs, ActionKeys, ActionSupport:
			default:
				return fmt.Errorf("%w: unknown action %q for %q", ErrInvalidMenu, btn.Action, btn.Text)
			}
			if seen[btn.Text] {
				return fmt.Errorf("%w: duplicate button %q", ErrInvalidMenu, btn.Text)
			}
			seen[btn.Text] = true
		}
	}
	return nil
}

// Labels returns the button rows as plain label strings.
func (m *MenuConfig) Labels() [][]string {
	rows := make([][]string, 0, len(m.Buttons))
	for _, row := range m.Buttons {
		labels := make([]string, 0, len(row))
		for _, btn := range row {
			labels = append(labels, btn.Text)
		}
		rows = append(rows, labels)
	}
	return rows
}

// Actions maps every button label to its action.
func (m *MenuConfig) Actions() map[string]string {
	actions := make(map[string]string)
	for _, row := range m.Buttons {
		for _, btn := range row {
			actions[btn.Text] = btn.Action
		}
	}
	return actions
}
