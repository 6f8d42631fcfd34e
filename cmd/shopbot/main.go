// Command shopbot runs the ShadowNet Telegram shop bot.
//
// Usage:
//
//	shopbot [config.yaml]
//
// Settings come from the environment (BOT_TOKEN, BACKEND_API_URL, ...);
// the optional YAML file describes the menu and the command list.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	shopbot "github.com/0xVanfer/shadownet-bot"
	"github.com/0xVanfer/shadownet-bot/config"
	"github.com/0xVanfer/shadownet-bot/logger"
)

const serviceName = "shadownet-bot"

func main() {
	logger.Init(serviceName, false, logger.FormatConsole)

	// Get config file path from command line, if any
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	l := logger.Init(serviceName, cfg.Bot.Debug, cfg.LogFormat)

	app, err := shopbot.New(cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Create context with interrupt signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		l.Fatal().Err(err).Msg("Failed to start bot")
	}

	// Wait for shutdown signal
	<-ctx.Done()
	l.Info().Msg("Stopping bot")
	app.Stop()
}
