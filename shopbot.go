// Package shopbot wires the ShadowNet shop bot together: the Telegram
// transport, the dialog router, the backend client and the ops server.
//
// Basic usage:
//
//	cfg, _ := config.Load("config.yaml")
//	app, _ := shopbot.New(cfg, log)
//	app.Start(ctx)
//	defer app.Stop()
package shopbot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/rs/zerolog"

	"github.com/0xVanfer/shadownet-bot/backend"
	"github.com/0xVanfer/shadownet-bot/config"
	"github.com/0xVanfer/shadownet-bot/core"
	"github.com/0xVanfer/shadownet-bot/dialog"
	"github.com/0xVanfer/shadownet-bot/handler"
	"github.com/0xVanfer/shadownet-bot/ops"
)

const shutdownTimeout = 5 * time.Second

// App is the main entry point of the shop bot.
// It orchestrates all components: bot, backend client, dialog and transport routers.
// Use New() to create a new instance and Start() to begin processing updates.
type App struct {
	cfg     *config.Config  // Validated configuration
	log     zerolog.Logger  // Root logger
	bot     *core.Bot       // Core bot instance for Telegram API operations
	backend *backend.Client // Backend REST client
	dialog  *dialog.Router  // Business logic
	router  *handler.Router // Transport adapter
	ops     *ops.Server     // Optional health and metrics server

	botHandler *th.BotHandler // Telego handler for update processing
}

// New creates a new App from a configuration.
// The configuration is validated; a missing token yields config.ErrConfigurationMissing.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	labels, err := dialog.LabelsFromMenu(cfg.Menu)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidMenu, err)
	}

	bot, err := core.NewBot(cfg.Bot.Token, log)
	if err != nil {
		return nil, err
	}

	client := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	}, log)

	dialogRouter := dialog.NewRouter(client, labels, log)
	menu := core.ReplyKeyboard(cfg.Menu.Labels(), cfg.Menu.ResizeKeyboard)

	app := &App{
		cfg:     cfg,
		log:     log,
		bot:     bot,
		backend: client,
		dialog:  dialogRouter,
		router:  handler.NewRouter(bot, dialogRouter, menu, log),
	}
	if cfg.MetricsAddr != "" {
		app.ops = ops.NewServer(cfg.MetricsAddr, log)
	}
	return app, nil
}

// Start looks up the bot's username, registers bot commands (if configured),
// starts the ops server and
// long polling, and begins handling updates in the background.
// Long polling stops when ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.identify(ctx); err != nil {
		return err
	}

	if a.cfg.Bot.ShouldRegisterCommands() {
		commands := make([]telego.BotCommand, len(a.cfg.Bot.Commands))
		for i, cmd := range a.cfg.Bot.Commands {
			commands[i] = telego.BotCommand{
				Command:     cmd.Command,
				Description: cmd.Description,
			}
		}
		if err := a.bot.SetMyCommands(ctx, commands); err != nil {
			a.log.Warn().Err(err).Msg("failed to register bot commands")
		}
	}

	if a.ops != nil {
		a.ops.Start()
	}

	updates, err := a.bot.Telego().UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start long polling: %w", err)
	}

	a.botHandler, err = th.NewBotHandler(a.bot.Telego(), updates)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}
	a.router.SetupHandler(a.botHandler)

	go a.botHandler.Start()

	a.log.Info().Str("backend", a.cfg.Backend.URL).Msg("bot started")
	return nil
}

// identify looks up the bot's username so that commands addressed to
// other bots in group chats are not answered.
func (a *App) identify(ctx context.Context) error {
	me, err := a.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	if me == nil {
		return nil
	}
	a.dialog.SetBotUsername(me.Username)
	a.log.Info().Str("username", me.Username).Msg("bot identified")
	return nil
}

// Stop stops update handling and the ops server, and deletes the bot
// commands when configured to.
// Long polling itself is stopped by cancelling the context passed to Start.
func (a *App) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.botHandler != nil {
		if err := a.botHandler.Stop(); err != nil {
			a.log.Warn().Err(err).Msg("bot handler stop")
		}
	}
	if a.ops != nil {
		if err := a.ops.Shutdown(ctx); err != nil {
			a.log.Warn().Err(err).Msg("ops server shutdown")
		}
	}
	if a.cfg.Bot.DeleteCommandsOnExit {
		if err := a.bot.DeleteMyCommands(ctx); err != nil {
			a.log.Warn().Err(err).Msg("failed to delete bot commands")
		}
	}
	a.log.Info().Msg("bot stopped")
}

// Bot returns the underlying core.Bot instance for direct Telegram API access.
func (a *App) Bot() *core.Bot {
	return a.bot
}

// Dialog returns the dialog router.
func (a *App) Dialog() *dialog.Router {
	return a.dialog
}
