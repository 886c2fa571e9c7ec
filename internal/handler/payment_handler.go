package handler

import (
	"errors"

	"github.com/genscoutai/genscout-backend/internal/controller"
	"github.com/genscoutai/genscout-backend/internal/middleware"
	"github.com/genscoutai/genscout-backend/internal/models"
	"github.com/genscoutai/genscout-backend/internal/service"
	"github.com/genscoutai/genscout-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const StripeSignatureHeader = "Stripe-Signature"

type PaymentHandler struct {
	paymentController *controller.PaymentController
	validator         *utils.Validator
}

func NewPaymentHandler(paymentController *controller.PaymentController, validator *utils.Validator) *PaymentHandler {
	return &PaymentHandler{
		paymentController: paymentController,
		validator:         validator,
	}
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	session, err := h.paymentController.CreateCheckoutSession(userID, middleware.UserEmail(c), req.PriceID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPriceID) {
			return c.Status(fiber.StatusBadRequest).JSON(models.CodedErrorResponse("unknown_price_id", "Unknown price"))
		}
		return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse("Could not create checkout session"))
	}

	return c.JSON(models.SuccessResponse(session, "Checkout session created"))
}

// HandleStripeWebhook 2xx dışındaki cevaplarda Stripe event'i tekrar gönderir;
// 4xx bu serviste "tekrar deneme anlamsız" demek.
func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get(StripeSignatureHeader)

	result, err := h.paymentController.HandleStripeWebhook(c.UserContext(), payload, signatureHeader)
	if err != nil {
		status, code := webhookErrorStatus(err)
		return c.Status(status).JSON(models.CodedErrorResponse(code, err.Error()))
	}

	return c.JSON(models.WebhookAck{
		Received: true,
		EventID:  result.EventID,
		Status:   string(result.Status),
	})
}

func webhookErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		return fiber.StatusBadRequest, "invalid_signature"
	case errors.Is(err, service.ErrMalformedEvent):
		return fiber.StatusBadRequest, "malformed_event"
	case errors.Is(err, service.ErrUnknownPriceID):
		return fiber.StatusUnprocessableEntity, "unknown_price_id"
	case errors.Is(err, service.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable, "store_unavailable"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}

func (h *PaymentHandler) GetCreditPackages(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(h.paymentController.GetCreditPackages(), "Packages retrieved successfully"))
}

func (h *PaymentHandler) GetBalance(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	balance, err := h.paymentController.GetBalance(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(balance, ""))
}

func (h *PaymentHandler) GetPurchaseHistory(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	purchases, err := h.paymentController.GetUserPurchaseHistory(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(purchases, ""))
}
