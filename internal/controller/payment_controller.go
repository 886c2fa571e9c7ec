package controller

import (
	"context"

	"github.com/genscoutai/genscout-backend/internal/models"
	"github.com/genscoutai/genscout-backend/internal/service"
)

type PaymentController struct {
	paymentService     *service.PaymentService
	fulfillmentService *service.FulfillmentService
}

func NewPaymentController(paymentService *service.PaymentService, fulfillmentService *service.FulfillmentService) *PaymentController {
	return &PaymentController{
		paymentService:     paymentService,
		fulfillmentService: fulfillmentService,
	}
}

func (c *PaymentController) CreateCheckoutSession(userID, userEmail, priceID string) (*models.CheckoutSession, error) {
	return c.paymentService.CreateCheckoutSession(userID, userEmail, priceID)
}

func (c *PaymentController) HandleStripeWebhook(ctx context.Context, payload []byte, signatureHeader string) (*service.FulfillmentResult, error) {
	return c.fulfillmentService.HandlePurchaseCompleted(ctx, payload, signatureHeader)
}

func (c *PaymentController) GetCreditPackages() []models.CreditPackage {
	return c.paymentService.GetCreditPackages()
}

func (c *PaymentController) GetBalance(ctx context.Context, userID string) (*models.BalanceResponse, error) {
	return c.paymentService.GetBalance(ctx, userID)
}

func (c *PaymentController) GetUserPurchaseHistory(ctx context.Context, userID string) ([]models.CreditPurchase, error) {
	return c.paymentService.GetUserPurchaseHistory(ctx, userID)
}
