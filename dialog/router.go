package dialog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/0xVanfer/shadownet-bot/backend"
	"github.com/0xVanfer/shadownet-bot/render"
)

// Backend is the subset of the backend client the router needs.
type Backend interface {
	GetSettings(ctx context.Context) (*backend.Settings, error)
	GetTexts(ctx context.Context) (*backend.Texts, error)
	RegisterUser(ctx context.Context, telegramID int64, username string) error
	ListTariffs(ctx context.Context) ([]backend.Tariff, error)
	ListMyKeys(ctx context.Context, telegramID int64, username string) ([]backend.AccessKey, error)
	CreatePayment(ctx context.Context, tariffID, telegramID int64, username string) (*backend.Payment, error)
}

// Reply is what the transport sends back: text, optionally as the caption
// of a photo, optionally with the reply menu attached.
type Reply struct {
	Text     string
	ImageURL string
	Menu     bool
}

// Router orchestrates backend calls and rendering for one message at a time.
// It holds no per-user state and is safe for concurrent use.
type Router struct {
	backend Backend
	labels  Labels
	log     zerolog.Logger

	botUsername string       // Accepted in /start@name; empty until SetBotUsername
	mu          sync.RWMutex // Guards botUsername
}

// NewRouter creates a router. Nil labels means DefaultLabels.
func NewRouter(b Backend, labels Labels, log zerolog.Logger) *Router {
	if labels == nil {
		labels = DefaultLabels()
	}
	return &Router{
		backend: b,
		labels:  labels,
		log:     log.With().Str("component", "dialog").Logger(),
	}
}

// SetBotUsername sets the bot's own username, as reported by getMe.
func (r *Router) SetBotUsername(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.botUsername = strings.TrimPrefix(username, "@")
}

// Classify classifies msg with the router's labels and bot username.
func (r *Router) Classify(msg Message) Intent {
	r.mu.RLock()
	botUsername := r.botUsername
	r.mu.RUnlock()
	return Classify(msg, r.labels, botUsername)
}

// Handle classifies msg and dispatches it.
func (r *Router) Handle(ctx context.Context, msg Message) (Reply, error) {
	return r.Dispatch(ctx, msg, r.Classify(msg))
}

// Dispatch performs the action for an already classified intent.
// Errors from read calls are returned as is; the caller decides what to do.
func (r *Router) Dispatch(ctx context.Context, msg Message, intent Intent) (Reply, error) {
	switch intent.Kind {
	case KindStart:
		return r.start(ctx, msg)
	case KindTariffs:
		return r.tariffs(ctx)
	case KindKeys:
		return r.keys(ctx, msg)
	case KindSupport:
		return r.support(ctx)
	case KindPay:
		return r.pay(ctx, msg, intent), nil
	default:
		return Reply{Text: render.Fallback}, nil
	}
}

func (r *Router) start(ctx context.Context, msg Message) (Reply, error) {
	var (
		settings *backend.Settings
		texts    *backend.Texts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		settings, err = r.backend.GetSettings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		texts, err = r.backend.GetTexts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Reply{}, fmt.Errorf("load greeting: %w", err)
	}

	if err := r.backend.RegisterUser(ctx, msg.UserID, msg.Username); err != nil {
		r.log.Warn().Err(err).Int64("user_id", msg.UserID).Msg("user registration failed")
	}

	payload := render.Start(texts.Find(render.StartMessageKey), render.Support(*settings))
	return Reply{Text: payload.Text, ImageURL: payload.ImageURL, Menu: true}, nil
}

func (r *Router) tariffs(ctx context.Context) (Reply, error) {
	tariffs, err := r.backend.ListTariffs(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("list tariffs: %w", err)
	}
	return Reply{Text: render.TariffList(tariffs)}, nil
}

func (r *Router) keys(ctx context.Context, msg Message) (Reply, error) {
	keys, err := r.backend.ListMyKeys(ctx, msg.UserID, msg.Username)
	if err != nil {
		return Reply{}, fmt.Errorf("list keys: %w", err)
	}
	return Reply{Text: render.Keys(keys)}, nil
}

func (r *Router) support(ctx context.Context) (Reply, error) {
	settings, err := r.backend.GetSettings(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("load support settings: %w", err)
	}
	return Reply{Text: render.Support(*settings)}, nil
}

// pay never fails: every payment problem becomes the fixed rejection text.
func (r *Router) pay(ctx context.Context, msg Message, intent Intent) Reply {
	if intent.Invalid {
		r.log.Info().Int64("user_id", msg.UserID).Msg("tariff number out of range")
		return Reply{Text: render.PaymentRejected}
	}

	payment, err := r.backend.CreatePayment(ctx, intent.TariffID, msg.UserID, msg.Username)
	if err != nil {
		r.log.Warn().
			Err(err).
			Int64("user_id", msg.UserID).
			Int64("tariff_id", intent.TariffID).
			Str("kind", string(backend.KindOf(err))).
			Msg("payment creation failed")
		return Reply{Text: render.PaymentRejected}
	}
	return Reply{Text: render.PaymentConfirmation(*payment)}
}
