package http

import (
	"io"
	"net/http"
	"time"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const stripeSignatureHeader = "Stripe-Signature"

// maxWebhookBody bounds the webhook payload we are willing to read.
const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	Handler
	service port.PaymentService
}

func NewPaymentHandler(service port.PaymentService, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type paymentResponse struct {
	ID              uint64          `json:"id"`
	OrderID         uint64          `json:"order_id"`
	Provider        string          `json:"provider"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	PaymentIntentID *string         `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func newPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:              p.ID,
		OrderID:         p.OrderID,
		Provider:        string(p.Provider),
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          string(p.Status),
		PaymentIntentID: p.PaymentIntentID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

type initiatePaymentRequest struct {
	Provider string `json:"provider" binding:"required"`
}

type initiatePaymentResponse struct {
	Payment      paymentResponse `json:"payment"`
	ClientSecret string          `json:"client_secret"`
}

func (ph *PaymentHandler) InitiatePayment(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	orderID, err := parseIDParam(ctx, "id")
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	req := initiatePaymentRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	provider, err := domain.ParsePaymentProvider(req.Provider)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	initiated, err := ph.service.InitiatePayment(ctx, orderID, userID, provider)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccessWithStatus(ctx, initiatePaymentResponse{
		Payment:      newPaymentResponse(initiated.Payment),
		ClientSecret: initiated.ClientSecret,
	}, http.StatusCreated)
}

type paymentDetailResponse struct {
	paymentResponse
	OrderNumber string `json:"order_number"`
	OrderStatus string `json:"order_status"`
}

func (ph *PaymentHandler) GetPayment(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	payment, order, err := ph.service.GetPayment(ctx, id, userID)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, paymentDetailResponse{
		paymentResponse: newPaymentResponse(payment),
		OrderNumber:     order.Number,
		OrderStatus:     string(order.Status),
	})
}

type webhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}

// Webhook ingests provider event deliveries. The raw body is needed
// verbatim for signature verification, so it is read before any JSON
// decoding happens.
func (ph *PaymentHandler) Webhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}
	defer ctx.Request.Body.Close()

	outcome, err := ph.service.HandleProviderEvent(ctx, payload, ctx.GetHeader(stripeSignatureHeader))
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, webhookResponse{Received: true, Outcome: string(outcome)})
}
