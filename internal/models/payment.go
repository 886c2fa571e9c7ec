package models

type CreateCheckoutSessionRequest struct {
	PriceID string `json:"price_id" validate:"required,stripe_price"`
}

type CheckoutSession struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	PriceID string `json:"price_id"`
	Credits int64  `json:"credits"`
}

// WebhookAck Stripe'a dönülen cevabın gövdesi
type WebhookAck struct {
	Received bool   `json:"received"`
	EventID  string `json:"event_id,omitempty"`
	Status   string `json:"status,omitempty"`
}
