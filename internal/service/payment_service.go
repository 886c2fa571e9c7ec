package service

import (
	"context"
	"fmt"

	"github.com/genscoutai/genscout-backend/internal/config"
	"github.com/genscoutai/genscout-backend/internal/models"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
)

type CheckoutCreator interface {
	CreateCheckoutSession(userID, userEmail, priceID string) (*stripe.CheckoutSession, error)
}

type BalanceReader interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
}

type PurchaseHistoryReader interface {
	GetUserPurchaseHistory(ctx context.Context, userID string) ([]models.CreditPurchase, error)
}

type PaymentService struct {
	checkout  CheckoutCreator
	balances  BalanceReader
	purchases PurchaseHistoryReader
	prices    config.PriceTable
	logger    *zap.Logger
}

func NewPaymentService(checkout CheckoutCreator, balances BalanceReader, purchases PurchaseHistoryReader, prices config.PriceTable, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		checkout:  checkout,
		balances:  balances,
		purchases: purchases,
		prices:    prices,
		logger:    logger.Named("payment"),
	}
}

// CreateCheckoutSession sadece tabloda olan price id'leri kabul eder; webhook
// tarafında karşılığı olmayan bir ödeme açılmamalı.
func (s *PaymentService) CreateCheckoutSession(userID, userEmail, priceID string) (*models.CheckoutSession, error) {
	credits, ok := s.prices.Lookup(priceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPriceID, priceID)
	}

	sess, err := s.checkout.CreateCheckoutSession(userID, userEmail, priceID)
	if err != nil {
		s.logger.Error("checkout session creation failed",
			zap.String("user_id", userID), zap.String("price_id", priceID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("checkout session created",
		zap.String("user_id", userID), zap.String("price_id", priceID), zap.String("session_id", sess.ID))

	return &models.CheckoutSession{
		ID:      sess.ID,
		URL:     sess.URL,
		PriceID: priceID,
		Credits: credits,
	}, nil
}

func (s *PaymentService) GetCreditPackages() []models.CreditPackage {
	entries := s.prices.Entries()
	packages := make([]models.CreditPackage, 0, len(entries))
	for _, e := range entries {
		packages = append(packages, models.CreditPackage{
			PriceID: e.PriceID,
			Credits: e.Credits,
		})
	}
	return packages
}

func (s *PaymentService) GetBalance(ctx context.Context, userID string) (*models.BalanceResponse, error) {
	credits, err := s.balances.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.BalanceResponse{
		UserID:  userID,
		Credits: credits,
	}, nil
}

func (s *PaymentService) GetUserPurchaseHistory(ctx context.Context, userID string) ([]models.CreditPurchase, error) {
	return s.purchases.GetUserPurchaseHistory(ctx, userID)
}
