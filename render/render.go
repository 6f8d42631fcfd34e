// Package render turns backend payloads into the texts sent to users.
// All functions are pure: the same input always yields the same output.
package render

import (
	"strconv"
	"strings"

	"github.com/0xVanfer/shadownet-bot/backend"
)

// Fixed user-facing texts.
const (
	DefaultSupport  = "support@shadownet.live"
	DefaultGreeting = "Добро пожаловать в ShadowNet!"
	StartInfo       = "Тарифы и ключи доступны через общий backend."
	NoTariffs       = "Тарифы не найдены"
	ChooseTariff    = "Напишите номер тарифа, чтобы получить ссылку на оплату."
	NoKeys          = "Пока нет купленных ключей"
	NotReserved     = "—"
	PaymentRejected = "Не удалось создать платёж, попробуйте другой тариф или позже."
	Fallback        = "Используйте меню, чтобы купить VPN или открыть профиль."
	StartMessageKey = "start"
	currencySuffix  = " ₽"
	itemSeparator   = " — "
)

// StartPayload is the greeting: caption text plus an optional photo.
type StartPayload struct {
	Text     string
	ImageURL string
}

// Support builds the support block from whichever contacts are set,
// in the order email, Telegram, chat URL.
func Support(s backend.Settings) string {
	var lines []string
	if s.SupportEmail != "" {
		lines = append(lines, "Email: "+s.SupportEmail)
	}
	if s.SupportTelegram != "" {
		lines = append(lines, "Telegram: "+s.SupportTelegram)
	}
	if s.SupportChatURL != "" {
		lines = append(lines, "Чат: "+s.SupportChatURL)
	}
	if len(lines) == 0 {
		return DefaultSupport
	}
	return strings.Join(lines, "\n")
}

// TariffList renders one line per tariff followed by the instruction line.
func TariffList(tariffs []backend.Tariff) string {
	lines := make([]string, 0, len(tariffs)+1)
	for _, t := range tariffs {
		lines = append(lines, strconv.FormatInt(t.ID, 10)+". "+t.Name+itemSeparator+Number(t.Price)+currencySuffix)
	}
	if len(lines) == 0 {
		lines = append(lines, NoTariffs)
	}
	lines = append(lines, ChooseTariff)
	return strings.Join(lines, "\n")
}

// Keys renders one line per key, labelled by its label or, failing that, its type.
func Keys(keys []backend.AccessKey) string {
	if len(keys) == 0 {
		return NoKeys
	}
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		name := k.Label
		if name == "" {
			name = k.Type
		}
		lines = append(lines, name+itemSeparator+k.RawURI)
	}
	return strings.Join(lines, "\n")
}

// PaymentConfirmation renders the invoice with its link and reservation deadline.
func PaymentConfirmation(p backend.Payment) string {
	reserved := p.ReservedUntil
	if reserved == "" {
		reserved = NotReserved
	}
	var b strings.Builder
	b.WriteString("Счёт #")
	b.WriteString(strconv.FormatInt(p.ID, 10))
	b.WriteString(" на ")
	b.WriteString(Number(p.Amount))
	b.WriteString(currencySuffix)
	b.WriteString(". Оплатите по ссылке: ")
	b.WriteString(p.PaymentURL)
	b.WriteString("\nРезерв ключа действует до ")
	b.WriteString(reserved)
	return b.String()
}

// Start builds the greeting from the "start" bot message (nil falls back to the
// default greeting), the informational line and the support block.
func Start(msg *backend.BotMessage, supportText string) StartPayload {
	greeting := DefaultGreeting
	var image string
	if msg != nil {
		greeting = msg.Content
		image = msg.ImageURL
	}
	return StartPayload{
		Text:     greeting + "\n" + StartInfo + "\n" + supportText,
		ImageURL: image,
	}
}

// Number formats an amount in its shortest decimal form: 100, 99.5.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
