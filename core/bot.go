// Package core provides core functionality for Telegram Bot operations.
// This package wraps the telego library to provide a small, opinionated
// interface for the operations the shop bot needs: sending texts and
// photos with a reply keyboard, and managing the command list.
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoutil"
	"github.com/rs/zerolog"
)

// API is the part of the Telegram Bot API used by Bot.
// *telego.Bot satisfies it.
type API interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
	SetMyCommands(ctx context.Context, params *telego.SetMyCommandsParams) error
	DeleteMyCommands(ctx context.Context, params *telego.DeleteMyCommandsParams) error
	GetMe(ctx context.Context) (*telego.User, error)
}

// Bot wraps the Telegram API to provide high-level message operations.
// All methods are safe for concurrent use.
type Bot struct {
	api API         // Underlying API, normally a *telego.Bot
	tg  *telego.Bot // Set when created with NewBot, used for polling
}

// NewBot creates a new Bot instance with the given token.
// Telego's own logs are forwarded to log at debug and error level.
// Returns an error if the token is invalid or bot creation fails.
func NewBot(token string, log zerolog.Logger) (*Bot, error) {
	bot, err := telego.NewBot(token, telego.WithLogger(telegoLogger{
		log:   log.With().Str("component", "telego").Logger(),
		token: token,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api: bot,
		tg:  bot,
	}, nil
}

// NewBotWithAPI creates a Bot over an arbitrary API implementation.
func NewBotWithAPI(api API) *Bot {
	return &Bot{api: api}
}

// Telego returns the underlying telego.Bot instance for direct API access.
// It is nil for bots created with NewBotWithAPI.
func (b *Bot) Telego() *telego.Bot {
	return b.tg
}

// SendText sends text to the chat, split into as many messages as needed.
// The markup, if any, is attached to the last message only.
// Link previews are disabled.
func (b *Bot) SendText(ctx context.Context, chatID int64, text string, markup telego.ReplyMarkup) error {
	if b.api == nil {
		return nil
	}

	parts := SplitMessage(text)
	for i, part := range parts {
		params := &telego.SendMessageParams{
			ChatID: telegoutil.ID(chatID),
			Text:   part,
			LinkPreviewOptions: &telego.LinkPreviewOptions{
				IsDisabled: true,
			},
		}
		if i == len(parts)-1 && markup != nil {
			params.ReplyMarkup = markup
		}
		if _, err := b.api.SendMessage(ctx, params); err != nil {
			return fmt.Errorf("send message part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

// SendPhoto sends a photo by URL with caption and markup.
// A caption longer than MaxCaptionLength does not fit Telegram's limit:
// the photo is then sent bare and the caption follows via SendText.
func (b *Bot) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, markup telego.ReplyMarkup) error {
	if b.api == nil {
		return nil
	}

	fits := CaptionFits(caption)
	params := &telego.SendPhotoParams{
		ChatID: telegoutil.ID(chatID),
		Photo:  telegoutil.FileFromURL(photoURL),
	}
	if fits {
		params.Caption = caption
		if markup != nil {
			params.ReplyMarkup = markup
		}
	}
	if _, err := b.api.SendPhoto(ctx, params); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}

	if fits {
		return nil
	}
	return b.SendText(ctx, chatID, caption, markup)
}

// SetMyCommands registers the bot's command list with Telegram.
// These commands appear in the command menu when users type "/".
func (b *Bot) SetMyCommands(ctx context.Context, commands []telego.BotCommand) error {
	if b.api == nil {
		return nil
	}

	return b.api.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: commands,
	})
}

// GetMe returns the bot's own account. It is nil without an API.
func (b *Bot) GetMe(ctx context.Context) (*telego.User, error) {
	if b.api == nil {
		return nil, nil
	}
	return b.api.GetMe(ctx)
}

// DeleteMyCommands removes the registered command list.
func (b *Bot) DeleteMyCommands(ctx context.Context) error {
	if b.api == nil {
		return nil
	}
	return b.api.DeleteMyCommands(ctx, nil)
}

// telegoLogger adapts zerolog to telego.Logger. The token is masked
// because telego logs request URLs that contain it.
type telegoLogger struct {
	log   zerolog.Logger
	token string
}

func (l telegoLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msg(l.mask(fmt.Sprintf(format, args...)))
}

func (l telegoLogger) Errorf(format string, args ...any) {
	l.log.Error().Msg(l.mask(fmt.Sprintf(format, args...)))
}

func (l telegoLogger) mask(s string) string {
	if l.token == "" {
		return s
	}
	return strings.ReplaceAll(s, l.token, "BOT_TOKEN")
}
