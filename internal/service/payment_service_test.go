package service

import (
	"context"
	"errors"
	"testing"

	"github.com/genscoutai/genscout-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap/zaptest"
)

type fakeCheckout struct {
	calls []string
	err   error
}

func (f *fakeCheckout) CreateCheckoutSession(userID, _, priceID string) (*stripe.CheckoutSession, error) {
	f.calls = append(f.calls, userID+"/"+priceID)
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

type fakeHistory struct {
	purchases []models.CreditPurchase
}

func (f *fakeHistory) GetUserPurchaseHistory(_ context.Context, userID string) ([]models.CreditPurchase, error) {
	var out []models.CreditPurchase
	for _, p := range f.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestPaymentService(t *testing.T, checkout CheckoutCreator) (*PaymentService, *fakeLedger) {
	ledger := newFakeLedger()
	history := &fakeHistory{purchases: []models.CreditPurchase{
		{UserID: "uid123", PriceID: testPriceID, Credits: 1000},
		{UserID: "uid999", PriceID: "price_large", Credits: 5000},
	}}
	return NewPaymentService(checkout, ledger, history, testPrices(), zaptest.NewLogger(t)), ledger
}

func TestCreateCheckoutSession(t *testing.T) {
	checkout := &fakeCheckout{}
	svc, _ := newTestPaymentService(t, checkout)

	sess, err := svc.CreateCheckoutSession("uid123", "scout@example.com", testPriceID)
	require.NoError(t, err)

	assert.Equal(t, "cs_test_1", sess.ID)
	assert.NotEmpty(t, sess.URL)
	assert.Equal(t, int64(1000), sess.Credits)
	assert.Equal(t, []string{"uid123/" + testPriceID}, checkout.calls)
}

func TestCreateCheckoutSession_UnknownPrice(t *testing.T) {
	checkout := &fakeCheckout{}
	svc, _ := newTestPaymentService(t, checkout)

	_, err := svc.CreateCheckoutSession("uid123", "", "price_not_for_sale")
	assert.ErrorIs(t, err, ErrUnknownPriceID)
	assert.Empty(t, checkout.calls)
}

func TestCreateCheckoutSession_StripeError(t *testing.T) {
	svc, _ := newTestPaymentService(t, &fakeCheckout{err: errors.New("card_declined")})

	_, err := svc.CreateCheckoutSession("uid123", "", testPriceID)
	assert.Error(t, err)
}

func TestGetCreditPackages(t *testing.T) {
	svc, _ := newTestPaymentService(t, &fakeCheckout{})

	assert.Equal(t, []models.CreditPackage{
		{PriceID: testPriceID, Credits: 1000},
		{PriceID: "price_large", Credits: 5000},
	}, svc.GetCreditPackages())
}

func TestGetBalanceAndHistory(t *testing.T) {
	ctx := context.Background()
	svc, ledger := newTestPaymentService(t, &fakeCheckout{})
	ledger.balances["uid123"] = 1500

	balance, err := svc.GetBalance(ctx, "uid123")
	require.NoError(t, err)
	assert.Equal(t, &models.BalanceResponse{UserID: "uid123", Credits: 1500}, balance)

	history, err := svc.GetUserPurchaseHistory(ctx, "uid123")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, testPriceID, history[0].PriceID)
}
