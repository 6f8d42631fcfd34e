// Package config defines configuration structures for the shop bot.
// This package provides the configuration types needed to define
// bot credentials, backend access, the reply menu and logging.
package config

// BotConfig defines the bot-level configuration settings.
// This includes authentication credentials, command registration
// and various behavioral options.
type BotConfig struct {
	// Token is the Telegram Bot API token obtained from @BotFather.
	// This is required for the bot to authenticate with Telegram servers.
	Token string `yaml:"-" env:"BOT_TOKEN"`

	// Commands is the list of commands to register with Telegram.
	// These appear in the command menu when users type "/".
	Commands []CmdConfig `yaml:"commands"`

	// Debug enables debug mode for verbose logging.
	Debug bool `yaml:"-" env:"DEBUG" envDefault:"false"`

	// DeleteCommandsOnExit determines whether to delete all registered
	// commands when the bot stops. Useful for development/testing.
	DeleteCommandsOnExit bool `yaml:"delete_commands_on_exit"`

	// RegisterCommands determines whether to register commands on startup.
	// Defaults to true. Set to false to skip command registration.
	RegisterCommands bool `yaml:"register_commands"`
}

// CmdConfig defines a single bot command configuration.
type CmdConfig struct {
	// Command is the command name without the leading slash.
	// For example, use "start" not "/start".
	Command string `yaml:"command"`

	// Description is shown in Telegram's command menu.
	Description string `yaml:"description"`
}

// NewDefaultBotConfig creates a BotConfig with the /start command registered.
func NewDefaultBotConfig() BotConfig {
	return BotConfig{
		Commands: []CmdConfig{
			{Command: "start", Description: "Главное меню"},
		},
		RegisterCommands: true,
	}
}

// Validate checks if the bot configuration is valid.
// Returns ErrEmptyToken if the token is not set.
func (c *BotConfig) Validate() error {
	if c.Token == "" {
		return ErrEmptyToken
	}
	return nil
}

// ShouldRegisterCommands reports whether commands are pushed to Telegram on start.
func (c *BotConfig) ShouldRegisterCommands() bool {
	return c.RegisterCommands && len(c.Commands) > 0
}
