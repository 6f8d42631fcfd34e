// Package backend is a thin JSON client for the shop backend REST API.
// It owns request construction and response decoding and reports every
// failure as a typed *Error. Nothing is retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/0xVanfer/shadownet-bot/metrics"
)

const defaultTimeout = 10 * time.Second

// Client operation names, used in errors, logs and metrics.
const (
	OpGetSettings   = "get_settings"
	OpGetTexts      = "get_texts"
	OpRegisterUser  = "register_user"
	OpListTariffs   = "list_tariffs"
	OpListMyKeys    = "list_my_keys"
	OpCreatePayment = "create_payment"
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // per call; defaults to 10s
	HTTPClient *http.Client  // optional, shared across calls
}

// Client calls the backend. Safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a backend client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
		log:     log.With().Str("component", "backend").Logger(),
	}
}

type requestIDKey struct{}

// WithRequestID stores a request ID that is forwarded as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// GetSettings fetches the support settings.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var out Settings
	if err := c.get(ctx, OpGetSettings, "/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTexts fetches the editable bot texts.
func (c *Client) GetTexts(ctx context.Context) (*Texts, error) {
	var out Texts
	if err := c.get(ctx, OpGetTexts, "/settings/texts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterUser upserts the Telegram user. The response body is ignored.
func (c *Client) RegisterUser(ctx context.Context, telegramID int64, username string) error {
	body := registerUserRequest{TelegramID: telegramID, Username: optional(username)}
	status, _, err := c.do(ctx, OpRegisterUser, http.MethodPost, "/bot/users", nil, body)
	if err != nil {
		return err
	}
	if !success(status) {
		return c.finish(OpRegisterUser, unavailable(OpRegisterUser, status, nil))
	}
	return nil
}

// ListTariffs returns the active tariffs in backend order.
func (c *Client) ListTariffs(ctx context.Context) ([]Tariff, error) {
	var out []Tariff
	if err := c.get(ctx, OpListTariffs, "/bot/tariffs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMyKeys returns the keys sold to the given Telegram user.
func (c *Client) ListMyKeys(ctx context.Context, telegramID int64, username string) ([]AccessKey, error) {
	query := url.Values{}
	query.Set("telegram_id", strconv.FormatInt(telegramID, 10))
	if username != "" {
		query.Set("username", username)
	}
	var out []AccessKey
	if err := c.get(ctx, OpListMyKeys, "/bot/keys/mine", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePayment asks the backend for an invoice. Any status other than 200
// yields a KindPaymentRejected error carrying the backend message.
func (c *Client) CreatePayment(ctx context.Context, tariffID, telegramID int64, username string) (*Payment, error) {
	body := createPaymentRequest{TariffID: tariffID, TelegramID: telegramID, Username: optional(username)}
	status, raw, err := c.do(ctx, OpCreatePayment, http.MethodPost, "/bot/payments/create", nil, body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		rejected := &Error{Kind: KindPaymentRejected, Op: OpCreatePayment, Status: status}
		var parsed errorResponse
		if json.Unmarshal(raw, &parsed) == nil {
			rejected.Message = parsed.Message
		}
		return nil, c.finish(OpCreatePayment, rejected)
	}

	var out Payment
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, c.finish(OpCreatePayment, malformed(OpCreatePayment, status, err))
	}
	return &out, nil
}

// get performs a read call: non-2xx is unavailability, undecodable JSON is malformed.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	status, raw, err := c.do(ctx, op, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if !success(status) {
		return c.finish(op, unavailable(op, status, nil))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return c.finish(op, malformed(op, status, err))
	}
	return nil
}

// do sends one request and reads the whole body. Only transport-level
// failures are returned as errors; status handling is left to the caller.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any) (int, []byte, error) {
	started := time.Now()

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, c.finish(op, &Error{Kind: KindUnavailable, Op: op, Cause: fmt.Errorf("marshal request body: %w", err)})
		}
		reader = bytes.NewReader(payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, fullURL, reader)
	if err != nil {
		return 0, nil, c.finish(op, unavailable(op, 0, fmt.Errorf("build request: %w", err)))
	}
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		metrics.ObserveBackendCall(op, string(KindUnavailable), time.Since(started))
		return 0, nil, c.finish(op, unavailable(op, 0, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveBackendCall(op, string(KindUnavailable), time.Since(started))
		return resp.StatusCode, nil, c.finish(op, unavailable(op, resp.StatusCode, fmt.Errorf("read response: %w", err)))
	}

	metrics.ObserveBackendCall(op, strconv.Itoa(resp.StatusCode), time.Since(started))
	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(started)).
		Msg("backend call")

	return resp.StatusCode, raw, nil
}

// finish logs a failed call and returns the error unchanged.
func (c *Client) finish(op string, err *Error) error {
	c.log.Debug().Err(err).Str("op", op).Str("kind", string(err.Kind)).Msg("backend call failed")
	return err
}

func success(status int) bool {
	return status >= 200 && status < 300
}
