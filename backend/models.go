package backend

// Settings carries the support contacts. Absent and null fields decode to "".
type Settings struct {
	SupportEmail    string `json:"supportEmail"`
	SupportTelegram string `json:"supportTelegram"`
	SupportChatURL  string `json:"supportChatUrl"`
}

// BotMessage is an editable bot text identified by key.
type BotMessage struct {
	Key      string `json:"key"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// Texts is the payload of GET /settings/texts.
type Texts struct {
	BotMessages []BotMessage `json:"botMessages"`
}

// Find returns the first message with the given key, or nil.
func (t *Texts) Find(key string) *BotMessage {
	if t == nil {
		return nil
	}
	for i := range t.BotMessages {
		if t.BotMessages[i].Key == key {
			return &t.BotMessages[i]
		}
	}
	return nil
}

// Tariff is a purchasable plan. Order is whatever the backend returns.
type Tariff struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ValidDays   int     `json:"validDays"`
}

// AccessKey is a purchased VPN key.
type AccessKey struct {
	Label  string `json:"label"`
	Type   string `json:"type"`
	RawURI string `json:"rawUri"`
}

// Payment is the invoice returned by payment creation.
type Payment struct {
	ID            int64   `json:"id"`
	Amount        float64 `json:"amount"`
	PaymentURL    string  `json:"paymentUrl"`
	ReservedUntil string  `json:"reservedUntil"`
}

type registerUserRequest struct {
	TelegramID int64   `json:"telegram_id"`
	Username   *string `json:"username"`
}

type createPaymentRequest struct {
	TariffID   int64   `json:"tariffId"`
	TelegramID int64   `json:"telegramId"`
	Username   *string `json:"username"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
