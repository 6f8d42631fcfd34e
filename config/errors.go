// Package config defines configuration structures for the shop bot.
package config

import (
	"errors"
	"fmt"
)

// Configuration-related error definitions.
// These errors are returned during configuration loading and validation.
var (
	// ErrConfigurationMissing is the root of every error that must stop the process from starting.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrEmptyToken is returned when the bot token is empty or not provided.
	ErrEmptyToken = fmt.Errorf("%w: bot token is empty", ErrConfigurationMissing)

	// ErrInvalidBackend is returned when the backend URL or timeout is unusable.
	ErrInvalidBackend = errors.New("invalid backend configuration")

	// ErrInvalidMenu is returned when a menu configuration is malformed.
	ErrInvalidMenu = errors.New("invalid menu configuration")

	// ErrInvalidLogFormat is returned when LOG_FORMAT is neither console nor json.
	ErrInvalidLogFormat = errors.New("invalid log format")
)
