// Package handler connects Telegram updates to the dialog router.
// It normalizes incoming messages, tags every update with a request ID,
// delivers the reply and records per-message logs and metrics.
package handler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	"github.com/rs/zerolog"

	"github.com/0xVanfer/shadownet-bot/backend"
	"github.com/0xVanfer/shadownet-bot/dialog"
	"github.com/0xVanfer/shadownet-bot/metrics"
)

// Sender delivers replies to a chat. core.Bot implements it.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string, markup telego.ReplyMarkup) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string, markup telego.ReplyMarkup) error
}

// Dialog classifies and answers one message. dialog.Router implements it.
type Dialog interface {
	Classify(msg dialog.Message) dialog.Intent
	Dispatch(ctx context.Context, msg dialog.Message, intent dialog.Intent) (dialog.Reply, error)
}

// Router handles message routing and reply delivery.
type Router struct {
	sender Sender             // Sender for replies
	dialog Dialog             // Business logic
	menu   telego.ReplyMarkup // Reply keyboard attached when a reply asks for it; may be nil
	log    zerolog.Logger

	newRequestID func() string
}

// NewRouter creates a new message router with the given dependencies.
// Parameters:
//   - sender: Delivers replies, normally a *core.Bot
//   - d: Dialog router that produces replies
//   - menu: Main menu keyboard, nil to never attach one
//   - log: Base logger; per-update fields are added to it
func NewRouter(sender Sender, d Dialog, menu *telego.ReplyKeyboardMarkup, log zerolog.Logger) *Router {
	r := &Router{
		sender:       sender,
		dialog:       d,
		log:          log.With().Str("component", "handler").Logger(),
		newRequestID: uuid.NewString,
	}
	if menu != nil {
		r.menu = menu
	}
	return r
}

// SetupHandler configures the telegohandler with routing rules.
// Every message with a known sender is routed; non-text messages get the fallback reply.
func (r *Router) SetupHandler(bh *th.BotHandler) {
	bh.Use(th.PanicRecovery())

	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		r.HandleMessage(ctx, message)
		return nil
	}, isUserMessage)
}

// isUserMessage matches messages sent by a user, with or without text.
func isUserMessage(_ context.Context, update telego.Update) bool {
	return update.Message != nil && update.Message.From != nil
}

// HandleMessage processes one incoming message end to end.
// Messages without text classify as fallback.
// Dispatch errors are logged and no reply is sent.
func (r *Router) HandleMessage(ctx context.Context, message telego.Message) {
	if message.From == nil {
		return
	}

	msg := dialog.Message{
		ChatID:   message.Chat.ID,
		UserID:   message.From.ID,
		Username: message.From.Username,
		Text:     message.Text,
	}

	requestID := r.newRequestID()
	ctx = backend.WithRequestID(ctx, requestID)

	intent := r.dialog.Classify(msg)
	log := r.log.With().
		Str("request_id", requestID).
		Int64("user_id", msg.UserID).
		Str("intent", intent.Kind.String()).
		Logger()
	ctx = log.WithContext(ctx)

	log.Debug().Str("text", truncateString(msg.Text, 50)).Msg("message received")

	reply, err := r.dialog.Dispatch(ctx, msg, intent)
	if err != nil {
		log.Error().Err(err).Msg("dispatch failed, no reply sent")
		metrics.RecordMessage(intent.Kind.String(), metrics.OutcomeFailed)
		return
	}

	if err := r.deliver(ctx, msg.ChatID, reply); err != nil {
		log.Error().Err(err).Msg("reply delivery failed")
		metrics.RecordMessage(intent.Kind.String(), metrics.OutcomeFailed)
		return
	}

	log.Debug().Msg("reply sent")
	metrics.RecordMessage(intent.Kind.String(), metrics.OutcomeReplied)
}

// deliver sends the reply as a photo when it has an image, as text otherwise.
func (r *Router) deliver(ctx context.Context, chatID int64, reply dialog.Reply) error {
	var markup telego.ReplyMarkup
	if reply.Menu && r.menu != nil {
		markup = r.menu
	}

	if reply.ImageURL != "" {
		if err := r.sender.SendPhoto(ctx, chatID, reply.ImageURL, reply.Text, markup); err != nil {
			return fmt.Errorf("send photo reply: %w", err)
		}
		return nil
	}

	if err := r.sender.SendText(ctx, chatID, reply.Text, markup); err != nil {
		return fmt.Errorf("send text reply: %w", err)
	}
	return nil
}

// truncateString truncates a string to the specified length with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
