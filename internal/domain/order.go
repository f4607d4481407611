package domain

// StatusNew is the label every order starts with.
const StatusNew = "New"

type Order struct {
	ID              int64   `json:"id"`
	SenderID        int64   `json:"sender_id"`
	ReceiverName    string  `json:"receiver_name"`
	ReceiverAddress string  `json:"receiver_address"`
	ReceiverPhone   string  `json:"receiver_phone"`
	ExchangeRate    float64 `json:"exchange_rate"`
	Amount          float64 `json:"amount"`
	Fee             float64 `json:"fee"`
	Total           float64 `json:"total"`
	SendDate        string  `json:"send_date"`
	TrackingNumber  string  `json:"tracking_number"`
	Status          string  `json:"status"`
}

// OrderWithSender is a read-only snapshot of an order joined with the display
// fields of its sender. Missing customers produce empty sender fields.
type OrderWithSender struct {
	Order
	SenderName          string `json:"sender_name"`
	SenderDriverLicense string `json:"sender_driver_license"`
	SenderBirthDate     string `json:"sender_birth_date"`
	SenderAddress       string `json:"sender_address"`
	SenderPhone         string `json:"sender_phone"`
}

// TrackedOrder is what the public tracking lookup returns: the order and the
// sender's name. Sender identity documents and contact details stay out.
type TrackedOrder struct {
	Order
	SenderName string `json:"sender_name"`
}

func (o *OrderWithSender) Tracked() *TrackedOrder {
	return &TrackedOrder{Order: o.Order, SenderName: o.SenderName}
}

// OrderFields holds raw submitted values keyed by form field name.
type OrderFields map[string]string

// Get returns the value of key, or "" when it is absent or blank.
func (f OrderFields) Get(key string) string {
	return text(f[key])
}
