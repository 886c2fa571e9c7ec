package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/genscoutai/genscout-backend/internal/config"
	"github.com/genscoutai/genscout-backend/internal/models"
	"github.com/genscoutai/genscout-backend/pkg/payment"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
)

const EventCheckoutSessionCompleted = "checkout.session.completed"

var (
	// Gövde güvenilmez; Stripe tekrar denememeli.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")
	// Konfigürasyon hatası: ödeme alındı ama price tabloda yok.
	ErrUnknownPriceID = errors.New("unknown price id")
	// Geçici altyapı hatası; Stripe tekrar göndermeli.
	ErrStoreUnavailable = errors.New("credit store unavailable")
)

type FulfillmentStatus string

const (
	FulfillmentAcknowledged FulfillmentStatus = "acknowledged"
	FulfillmentIgnored      FulfillmentStatus = "ignored"
	FulfillmentDuplicate    FulfillmentStatus = "duplicate"
)

type EventVerifier interface {
	ValidateSignature(payload []byte, signatureHeader string) error
	ParseEvent(payload []byte) (*stripe.Event, error)
}

// LineItemResolver webhook gövdesinde price yoksa Stripe'tan sorar
type LineItemResolver interface {
	SessionPriceID(sessionID string) (string, error)
}

type CreditLedger interface {
	Fulfill(ctx context.Context, grant models.CreditGrant) (bool, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
}

type EventArchiver interface {
	Upload(ctx context.Context, key, contentType string, reader io.Reader) error
}

type ReceiptSender interface {
	SendCreditsReceipt(email string, credits, balance int64) error
}

type FulfillmentResult struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Status    FulfillmentStatus `json:"status"`
	UserID    string            `json:"user_id,omitempty"`
	PriceID   string            `json:"price_id,omitempty"`
	Credits   int64             `json:"credits,omitempty"`
}

type FulfillmentService struct {
	verifier  EventVerifier
	lineItems LineItemResolver
	ledger    CreditLedger
	prices    config.PriceTable
	archiver  EventArchiver
	receipts  ReceiptSender
	logger    *zap.Logger
}

// lineItems, archiver ve receipts nil olabilir.
func NewFulfillmentService(
	verifier EventVerifier,
	lineItems LineItemResolver,
	ledger CreditLedger,
	prices config.PriceTable,
	archiver EventArchiver,
	receipts ReceiptSender,
	logger *zap.Logger,
) *FulfillmentService {
	return &FulfillmentService{
		verifier:  verifier,
		lineItems: lineItems,
		ledger:    ledger,
		prices:    prices,
		archiver:  archiver,
		receipts:  receipts,
		logger:    logger.Named("fulfillment"),
	}
}

// HandlePurchaseCompleted imzayı doğrular, sadece checkout.session.completed
// event'lerini işler ve kullanıcının bakiyesini price tablosundaki miktar kadar artırır.
// Fiyat çözülmeden bakiyeye dokunulmaz.
func (s *FulfillmentService) HandlePurchaseCompleted(ctx context.Context, rawBody []byte, signatureHeader string) (*FulfillmentResult, error) {
	// 1. imza, gövde parse edilmeden önce
	if err := s.verifier.ValidateSignature(rawBody, signatureHeader); err != nil {
		s.logger.Warn("webhook signature rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event, err := s.verifier.ParseEvent(rawBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	result := &FulfillmentResult{
		EventID:   event.ID,
		EventType: string(event.Type),
	}
	log := s.logger.With(zap.String("event_id", event.ID), zap.String("event_type", result.EventType))

	// 2. filtre
	if result.EventType != EventCheckoutSessionCompleted {
		log.Debug("webhook event ignored")
		result.Status = FulfillmentIgnored
		return result, nil
	}

	// 3. alanlar
	sess, err := decodeCheckoutSession(event)
	if err != nil {
		log.Warn("malformed checkout session", zap.Error(err))
		return nil, err
	}

	// Gecikmeli ödeme yöntemlerinde session tamamlanır ama para henüz gelmemiştir.
	if !sessionPaid(sess) {
		log.Warn("checkout session completed without payment, no credits granted",
			zap.String("session_id", sess.ID),
			zap.String("payment_status", string(sess.PaymentStatus)),
		)
		result.Status = FulfillmentIgnored
		return result, nil
	}

	userID := strings.TrimSpace(sess.Metadata[payment.MetadataUserID])
	if userID == "" {
		log.Warn("checkout session without userId metadata", zap.String("session_id", sess.ID))
		return nil, fmt.Errorf("%w: missing metadata.%s", ErrMalformedEvent, payment.MetadataUserID)
	}

	priceID, err := s.resolvePriceID(sess)
	if err != nil {
		log.Warn("could not resolve price id", zap.String("session_id", sess.ID), zap.Error(err))
		return nil, err
	}
	result.UserID = userID
	result.PriceID = priceID
	log = log.With(zap.String("user_id", userID), zap.String("price_id", priceID))

	// 4. kredi miktarı
	credits, ok := s.prices.Lookup(priceID)
	if !ok {
		// Müşteri ödedi ama hiçbir şey almadı: operatör müdahalesi gerekli.
		log.Error("paid checkout for unconfigured price id, no credits granted", zap.String("session_id", sess.ID))
		return nil, fmt.Errorf("%w: %s", ErrUnknownPriceID, priceID)
	}
	result.Credits = credits

	// 5. atomik artış
	applied, err := s.ledger.Fulfill(ctx, models.CreditGrant{
		EventID:   event.ID,
		EventType: result.EventType,
		SessionID: sess.ID,
		UserID:    userID,
		PriceID:   priceID,
		Credits:   credits,
	})
	if err != nil {
		log.Error("credit increment failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !applied {
		log.Info("duplicate webhook delivery, credits already granted")
		result.Status = FulfillmentDuplicate
		return result, nil
	}

	log.Info("credits granted", zap.Int64("credits", credits))
	result.Status = FulfillmentAcknowledged

	s.archive(ctx, event, rawBody, log)
	s.sendReceipt(ctx, sess, userID, credits, log)

	return result, nil
}

func decodeCheckoutSession(event *stripe.Event) (*stripe.CheckoutSession, error) {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: event has no data object", ErrMalformedEvent)
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return &sess, nil
}

func sessionPaid(sess *stripe.CheckoutSession) bool {
	switch sess.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid, stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return true
	default:
		return false
	}
}

// resolvePriceID sırası: gövdedeki line item, metadata.priceId, Stripe API
func (s *FulfillmentService) resolvePriceID(sess *stripe.CheckoutSession) (string, error) {
	if priceID := payment.LineItemPriceID(sess); priceID != "" {
		return priceID, nil
	}
	if priceID := strings.TrimSpace(sess.Metadata[payment.MetadataPriceID]); priceID != "" {
		return priceID, nil
	}

	if s.lineItems == nil || sess.ID == "" {
		return "", fmt.Errorf("%w: no price id on checkout session", ErrMalformedEvent)
	}

	priceID, err := s.lineItems.SessionPriceID(sess.ID)
	if errors.Is(err, payment.ErrNoLineItems) {
		return "", fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if err != nil {
		return "", fmt.Errorf("%w: line item lookup: %v", ErrStoreUnavailable, err)
	}
	return priceID, nil
}

func (s *FulfillmentService) archive(ctx context.Context, event *stripe.Event, rawBody []byte, log *zap.Logger) {
	if s.archiver == nil {
		return
	}

	key := ArchiveKey(event)
	if err := s.archiver.Upload(ctx, key, "application/json", bytes.NewReader(rawBody)); err != nil {
		log.Warn("webhook archive failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *FulfillmentService) sendReceipt(ctx context.Context, sess *stripe.CheckoutSession, userID string, credits int64, log *zap.Logger) {
	if s.receipts == nil {
		return
	}

	email := sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}
	if email == "" {
		return
	}

	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		log.Warn("could not read balance for receipt", zap.Error(err))
		return
	}
	if err := s.receipts.SendCreditsReceipt(email, credits, balance); err != nil {
		log.Warn("receipt email failed", zap.Error(err))
	}
}

// ArchiveKey webhooks/<yyyy>/<mm>/<event id>.json
func ArchiveKey(event *stripe.Event) string {
	created := event.Created
	if created <= 0 {
		return fmt.Sprintf("webhooks/unknown/%s.json", event.ID)
	}
	t := time.Unix(created, 0).UTC()
	return fmt.Sprintf("webhooks/%04d/%02d/%s.json", t.Year(), int(t.Month()), event.ID)
}
