package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0xVanfer/shadownet-bot/backend"
)

func TestSupportDefault(t *testing.T) {
	assert.Equal(t, DefaultSupport, Support(backend.Settings{}))
}

func TestSupportFieldOrder(t *testing.T) {
	tests := []struct {
		name     string
		settings backend.Settings
		want     string
	}{
		{
			name:     "email only",
			settings: backend.Settings{SupportEmail: "a@b.c"},
			want:     "Email: a@b.c",
		},
		{
			name:     "telegram and chat",
			settings: backend.Settings{SupportTelegram: "@help", SupportChatURL: "https://t.me/chat"},
			want:     "Telegram: @help\nЧат: https://t.me/chat",
		},
		{
			name: "all three",
			settings: backend.Settings{
				SupportChatURL:  "https://t.me/chat",
				SupportEmail:    "a@b.c",
				SupportTelegram: "@help",
			},
			want: "Email: a@b.c\nTelegram: @help\nЧат: https://t.me/chat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Support(tt.settings)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Support(tt.settings))
		})
	}
}

func TestTariffList(t *testing.T) {
	tariffs := []backend.Tariff{
		{ID: 1, Name: "Basic", Price: 100},
		{ID: 2, Name: "Pro", Price: 300},
	}
	got := TariffList(tariffs)
	assert.Equal(t, "1. Basic — 100 ₽\n2. Pro — 300 ₽\nНапишите номер тарифа, чтобы получить ссылку на оплату.", got)
	assert.Equal(t, got, TariffList(tariffs))
}

func TestTariffListEmpty(t *testing.T) {
	assert.Equal(t, "Тарифы не найдены\nНапишите номер тарифа, чтобы получить ссылку на оплату.", TariffList(nil))
}

func TestTariffListLineCount(t *testing.T) {
	for n := 0; n < 5; n++ {
		tariffs := make([]backend.Tariff, n)
		for i := range tariffs {
			tariffs[i] = backend.Tariff{ID: int64(i + 1), Name: "T", Price: 1.5}
		}
		lines := strings.Split(TariffList(tariffs), "\n")
		want := n + 1
		if n == 0 {
			want = 2
		}
		assert.Len(t, lines, want)
		assert.Equal(t, ChooseTariff, lines[len(lines)-1])
	}
}

func TestKeys(t *testing.T) {
	keys := []backend.AccessKey{
		{Label: "Home", Type: "vless", RawURI: "vless://a"},
		{Type: "outline", RawURI: "ss://b"},
	}
	got := Keys(keys)
	assert.Equal(t, "Home — vless://a\noutline — ss://b", got)
	assert.Equal(t, got, Keys(keys))
}

func TestKeysEmpty(t *testing.T) {
	assert.Equal(t, NoKeys, Keys(nil))
	assert.Equal(t, NoKeys, Keys([]backend.AccessKey{}))
}

func TestPaymentConfirmationWithoutReservation(t *testing.T) {
	got := PaymentConfirmation(backend.Payment{ID: 42, Amount: 300, PaymentURL: "https://pay/42"})
	assert.Equal(t, "Счёт #42 на 300 ₽. Оплатите по ссылке: https://pay/42\nРезерв ключа действует до —", got)
}

func TestPaymentConfirmationWithReservation(t *testing.T) {
	got := PaymentConfirmation(backend.Payment{
		ID:            7,
		Amount:        149.9,
		PaymentURL:    "https://pay/7",
		ReservedUntil: "2026-10-16T12:00:00.000Z",
	})
	assert.Contains(t, got, "Счёт #7 на 149.9 ₽")
	assert.True(t, strings.HasSuffix(got, "до 2026-10-16T12:00:00.000Z"))
}

func TestStartDefaultGreeting(t *testing.T) {
	got := Start(nil, DefaultSupport)
	assert.Equal(t, "Добро пожаловать в ShadowNet!\nТарифы и ключи доступны через общий backend.\nsupport@shadownet.live", got.Text)
	assert.Empty(t, got.ImageURL)
	assert.Equal(t, got, Start(nil, DefaultSupport))
}

func TestStartConfiguredMessage(t *testing.T) {
	got := Start(&backend.BotMessage{Key: "start", Content: "Привет!", ImageURL: "https://img/start.png"}, "Email: a@b.c")
	assert.Equal(t, "Привет!\nТарифы и ключи доступны через общий backend.\nEmail: a@b.c", got.Text)
	assert.Equal(t, "https://img/start.png", got.ImageURL)
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "100", Number(100))
	assert.Equal(t, "99.5", Number(99.5))
	assert.Equal(t, "0", Number(0))
}
