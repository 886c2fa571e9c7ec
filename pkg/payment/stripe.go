package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"
)

const (
	MetadataUserID  = "userId"
	MetadataPriceID = "priceId"
)

var ErrNoLineItems = errors.New("checkout session has no priced line items")

type StripeService struct {
	secretKey     string
	webhookSecret string
	frontendURL   string
}

func NewStripeService(secretKey, webhookSecret, frontendURL string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		frontendURL:   frontendURL,
	}
}

// ValidateSignature Stripe-Signature header'ını ham gövde üzerinden doğrular.
// Gövde burada parse edilmez.
func (s *StripeService) ValidateSignature(payload []byte, signatureHeader string) error {
	if s.webhookSecret == "" {
		return errors.New("webhook secret is not configured")
	}
	return webhook.ValidatePayload(payload, signatureHeader, s.webhookSecret)
}

// ParseEvent imzası doğrulanmış gövdeyi event'e çevirir
func (s *StripeService) ParseEvent(payload []byte) (*stripe.Event, error) {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook body json: %w", err)
	}
	return &event, nil
}

func (s *StripeService) CreateCheckoutSession(userID, userEmail, priceID string) (*stripe.CheckoutSession, error) {
	return session.New(s.checkoutParams(userID, userEmail, priceID))
}

func (s *StripeService) checkoutParams(userID, userEmail, priceID string) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		// Sadece kart: completed event'i geldiğinde ödeme tahsil edilmiş olur
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(userID),
		SuccessURL:        stripe.String(s.frontendURL + "/credits/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.frontendURL + "/credits/cancel"),
	}
	if userEmail != "" {
		params.CustomerEmail = stripe.String(userEmail)
	}

	// Webhook kullanıcıyı ve paketi buradan geri okur
	params.AddMetadata(MetadataUserID, userID)
	params.AddMetadata(MetadataPriceID, priceID)

	return params
}

// SessionPriceID webhook gövdesinde line item yoksa session'ı line_items ile tekrar çeker
func (s *StripeService) SessionPriceID(sessionID string) (string, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items")

	sess, err := session.Get(sessionID, params)
	if err != nil {
		return "", err
	}

	if priceID := LineItemPriceID(sess); priceID != "" {
		return priceID, nil
	}
	return "", ErrNoLineItems
}

// LineItemPriceID session içindeki ilk fiyatlı line item'ın price id'si
func LineItemPriceID(sess *stripe.CheckoutSession) string {
	if sess == nil || sess.LineItems == nil {
		return ""
	}
	for _, item := range sess.LineItems.Data {
		if item != nil && item.Price != nil && item.Price.ID != "" {
			return item.Price.ID
		}
	}
	return ""
}
