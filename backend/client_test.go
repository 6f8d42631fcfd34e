package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second}, zerolog.Nop())
}

func TestGetSettingsDecodesOptionalFields(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/settings", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"supportEmail":"help@example.com","supportTelegram":null,"botToken":"secret"}`))
	})

	settings, err := c.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "help@example.com", settings.SupportEmail)
	assert.Empty(t, settings.SupportTelegram)
	assert.Empty(t, settings.SupportChatURL)
}

func TestGetTextsFindsStartMessage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/settings/texts", r.URL.Path)
		_, _ = w.Write([]byte(`{"botMessages":[{"key":"help","content":"h"},{"key":"start","content":"Hi","imageUrl":"https://img/1.png"}],"siteTexts":[]}`))
	})

	texts, err := c.GetTexts(context.Background())
	require.NoError(t, err)
	start := texts.Find("start")
	require.NotNil(t, start)
	assert.Equal(t, "Hi", start.Content)
	assert.Equal(t, "https://img/1.png", start.ImageURL)
	assert.Nil(t, texts.Find("missing"))
}

func TestRegisterUserSendsBody(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bot/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	require.NoError(t, c.RegisterUser(context.Background(), 77, ""))
	assert.Equal(t, float64(77), got["telegram_id"])
	assert.Contains(t, got, "username")
	assert.Nil(t, got["username"])
}

func TestListTariffsKeepsBackendOrder(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":2,"name":"Pro","price":300},{"id":1,"name":"Basic","price":99.5}]`))
	})

	tariffs, err := c.ListTariffs(context.Background())
	require.NoError(t, err)
	require.Len(t, tariffs, 2)
	assert.Equal(t, int64(2), tariffs[0].ID)
	assert.Equal(t, 99.5, tariffs[1].Price)
}

func TestListMyKeysQuery(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bot/keys/mine", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("telegram_id"))
		assert.Equal(t, "neo", r.URL.Query().Get("username"))
		_, _ = w.Write([]byte(`[{"label":null,"type":"vless","rawUri":"vless://x"}]`))
	})

	keys, err := c.ListMyKeys(context.Background(), 42, "neo")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Empty(t, keys[0].Label)
	assert.Equal(t, "vless", keys[0].Type)
}

func TestListMyKeysOmitsEmptyUsername(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["username"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`[]`))
	})

	keys, err := c.ListMyKeys(context.Background(), 42, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCreatePaymentSuccess(t *testing.T) {
	t.Parallel()

	var got createPaymentRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bot/payments/create", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":42,"amount":300,"paymentUrl":"https://pay/42","reservedUntil":null,"status":"pending"}`))
	})

	payment, err := c.CreatePayment(context.Background(), 2, 100, "neo")
	require.NoError(t, err)
	assert.Equal(t, int64(42), payment.ID)
	assert.Equal(t, float64(300), payment.Amount)
	assert.Equal(t, "https://pay/42", payment.PaymentURL)
	assert.Empty(t, payment.ReservedUntil)

	assert.Equal(t, int64(2), got.TariffID)
	assert.Equal(t, int64(100), got.TelegramID)
	require.NotNil(t, got.Username)
	assert.Equal(t, "neo", *got.Username)
}

func TestCreatePaymentRejected(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Нет свободных ключей"}`))
	})

	payment, err := c.CreatePayment(context.Background(), 9, 100, "")
	require.Error(t, err)
	assert.Nil(t, payment)
	assert.True(t, errors.Is(err, ErrPaymentRejected))
	assert.False(t, errors.Is(err, ErrBackendUnavailable))

	var be *Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, http.StatusBadRequest, be.Status)
	assert.Equal(t, "Нет свободных ключей", be.Message)
}

func TestCreatePaymentNon200SuccessIsRejected(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	_, err := c.CreatePayment(context.Background(), 1, 1, "")
	assert.ErrorIs(t, err, ErrPaymentRejected)
}

func TestReadCallNon2xxIsUnavailable(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ListTariffs(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, KindUnavailable, KindOf(err))
}

func TestMalformedResponse(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	})

	_, err := c.ListTariffs(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestTimeoutIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, zerolog.Nop())
	_, err := c.GetSettings(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConnectionRefusedIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: baseURL}, zerolog.Nop())
	err := c.RegisterUser(context.Background(), 1, "x")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestRequestIDIsForwarded(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{}`))
	})

	ctx := WithRequestID(context.Background(), "req-1")
	_, err := c.GetSettings(ctx)
	require.NoError(t, err)
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	err := &Error{Kind: KindPaymentRejected, Op: OpCreatePayment, Status: 400, Message: "no keys"}
	assert.Equal(t, "[PAYMENT_REJECTED] create_payment: status 400: no keys", err.Error())
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}
