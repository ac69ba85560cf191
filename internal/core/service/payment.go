package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

const paymentCurrency = "usd"

const (
	eventPaymentSucceeded = "payment_intent.succeeded"
	eventPaymentFailed    = "payment_intent.payment_failed"
)

type PaymentService struct {
	repo     port.Repository
	provider port.PaymentProviderClient
	logger   *zap.Logger
}

func NewPaymentService(repo port.Repository, provider port.PaymentProviderClient,
	logger *zap.Logger) (*PaymentService, error) {
	return &PaymentService{
		repo:     repo,
		provider: provider,
		logger:   logger,
	}, nil
}

func (s *PaymentService) InitiatePayment(ctx context.Context, orderID, userID uint64,
	provider domain.PaymentProvider) (*port.InitiatedPayment, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if !order.CanAcceptPayment() {
		return nil, domain.ErrOrderNotPayable
	}
	if provider != domain.PaymentProviderStripe {
		return nil, domain.ErrProviderNotSupported
	}

	payment, err := s.repo.CreatePayment(ctx, &domain.Payment{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Provider: provider,
		Amount:   order.Total,
		Currency: paymentCurrency,
		Status:   domain.PaymentStatusPending,
		Metadata: map[string]any{
			"order_number": order.Number,
			"created_at":   time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		s.logger.Error("Create payment", zap.Error(err))
		return nil, domain.ErrInternal
	}

	minor, err := amountMinorUnits(order.Total)
	if err != nil {
		s.logger.Error("Amount conversion", zap.Error(err))
		return nil, domain.ErrInternal
	}

	intent, err := s.provider.CreateIntent(ctx, minor, paymentCurrency,
		fmt.Sprintf("Payment for Order #%s", order.Number),
		map[string]string{
			"order_id":     strconv.FormatUint(order.ID, 10),
			"order_number": order.Number,
			"payment_id":   strconv.FormatUint(payment.ID, 10),
		})
	if err != nil {
		s.logger.Error("Create payment intent",
			zap.String("order", order.Number), zap.Error(err))
		return nil, domain.ErrProviderUnavailable
	}

	payment.PaymentIntentID = &intent.ID
	payment.MergeMetadata(map[string]any{"client_secret": intent.ClientSecret})

	payment, err = s.repo.UpdatePayment(ctx, payment)
	if err != nil {
		s.logger.Error("Update payment", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return &port.InitiatedPayment{
		Payment:      payment,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID, userID uint64) (*domain.Payment, *domain.Order, error) {
	payment, err := s.repo.ReadPayment(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if payment.UserID != userID {
		return nil, nil, domain.ErrForbidden
	}

	order, err := s.repo.ReadOrder(ctx, payment.OrderID)
	if err != nil {
		return nil, nil, err
	}

	return payment, order, nil
}

// providerEvent is the subset of the provider's webhook envelope this
// service consumes.
type providerEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object providerIntent `json:"object"`
	} `json:"data"`
}

type providerIntent struct {
	ID               string            `json:"id"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Status           string            `json:"status"`
	PaymentMethod    string            `json:"payment_method"`
	Metadata         map[string]string `json:"metadata"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

// HandleProviderEvent reconciles an asynchronous provider notification
// against local payment and order state. Deliveries are at-least-once and
// may arrive duplicated, concurrently, or out of order; the status gates
// inside the row-locked transaction make every redelivery a no-op.
func (s *PaymentService) HandleProviderEvent(ctx context.Context, payload []byte,
	sigHeader string) (port.WebhookOutcome, error) {
	// Trust boundary: nothing is parsed and no state is read before the
	// signature checks out.
	if err := s.provider.VerifySignature(payload, sigHeader); err != nil {
		s.logger.Error("Webhook signature verification", zap.Error(err))
		return "", domain.ErrWebhookBadSignature
	}

	var event providerEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		s.logger.Error("Webhook payload decode", zap.Error(err))
		return "", domain.ErrWebhookBadPayload
	}

	switch event.Type {
	case eventPaymentSucceeded:
		return s.reconcileSucceeded(ctx, &event.Data.Object)
	case eventPaymentFailed:
		return s.reconcileFailed(ctx, &event.Data.Object)
	default:
		s.logger.Info("Unhandled webhook event", zap.String("type", event.Type))
		return port.WebhookIgnored, nil
	}
}

// resolvePayment maps a provider intent to the local payment record:
// first by intent id, then by the payment id embedded in the intent
// metadata. A miss on both is acknowledged, not failed, so the provider
// does not redeliver forever.
func (s *PaymentService) resolvePayment(ctx context.Context, intent *providerIntent) (*domain.Payment, error) {
	payment, err := s.repo.GetPaymentByIntentID(ctx, intent.ID)
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, domain.ErrDataNotFound) {
		return nil, err
	}

	if raw, ok := intent.Metadata["payment_id"]; ok {
		id, convErr := strconv.ParseUint(raw, 10, 64)
		if convErr == nil {
			return s.repo.ReadPayment(ctx, id)
		}
	}

	return nil, domain.ErrDataNotFound
}

func (s *PaymentService) reconcileSucceeded(ctx context.Context, intent *providerIntent) (port.WebhookOutcome, error) {
	payment, err := s.resolvePayment(ctx, intent)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			s.logger.Error("Payment not found for intent", zap.String("intent", intent.ID))
			return port.WebhookUnresolved, nil
		}
		return "", err
	}

	applied := false
	err = s.repo.ReconcilePaymentTx(ctx, payment.ID,
		func(p *domain.Payment, o *domain.Order) (*domain.OrderStatusHistory, error) {
			// Idempotency gate: a final payment never changes again. A late
			// success for an intent already marked failed belongs to a dead
			// attempt, the retry runs under a fresh payment record.
			if p.Status.IsFinal() {
				return nil, nil
			}
			applied = true

			now := time.Now().UTC()
			p.Status = domain.PaymentStatusCompleted
			p.MergeMetadata(map[string]any{
				"provider_data": map[string]any{
					"amount":         intent.Amount,
					"currency":       intent.Currency,
					"payment_method": intent.PaymentMethod,
					"status":         intent.Status,
					"completed_at":   now.Format(time.RFC3339),
				},
			})

			o.PaymentStatus = domain.PaymentStatusCompleted
			o.TransactionID = &intent.ID
			o.PaidAt = &now

			hist, trErr := transition(o, domain.OrderStatusPaid, nil,
				"Payment completed via "+string(p.Provider)+" webhook")
			if trErr != nil {
				// The payment is real money collected; it stays completed
				// even when the order refuses the PAID transition (already
				// cancelled concurrently). Record the drift for manual
				// reconciliation.
				p.MergeMetadata(map[string]any{
					"reconciliation_anomaly": trErr.Error(),
				})
				s.logger.Error("Payment completed but order transition rejected",
					zap.Uint64("payment", p.ID),
					zap.String("order", o.Number),
					zap.Error(trErr))
				return nil, nil
			}
			return hist, nil
		})
	if err != nil {
		s.logger.Error("Reconcile succeeded payment", zap.Error(err))
		return "", err
	}

	if !applied {
		return port.WebhookIgnored, nil
	}

	s.logger.Info("Payment marked as completed via webhook",
		zap.Uint64("payment", payment.ID))

	return port.WebhookApplied, nil
}

func (s *PaymentService) reconcileFailed(ctx context.Context, intent *providerIntent) (port.WebhookOutcome, error) {
	payment, err := s.resolvePayment(ctx, intent)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			s.logger.Error("Payment not found for failed intent", zap.String("intent", intent.ID))
			return port.WebhookUnresolved, nil
		}
		return "", err
	}

	applied := false
	err = s.repo.ReconcilePaymentTx(ctx, payment.ID,
		func(p *domain.Payment, o *domain.Order) (*domain.OrderStatusHistory, error) {
			// A final payment, completed or failed, never changes again.
			if p.Status.IsFinal() {
				return nil, nil
			}
			applied = true

			reason := "Unknown error"
			if intent.LastPaymentError != nil {
				reason = intent.LastPaymentError.Message
			}

			p.Status = domain.PaymentStatusFailed
			p.MergeMetadata(map[string]any{
				"provider_data": map[string]any{
					"error":     reason,
					"status":    intent.Status,
					"failed_at": time.Now().UTC().Format(time.RFC3339),
				},
			})

			// A failed payment does not cancel the order, the customer
			// may retry.
			o.PaymentStatus = domain.PaymentStatusFailed
			return nil, nil
		})
	if err != nil {
		s.logger.Error("Reconcile failed payment", zap.Error(err))
		return "", err
	}

	if !applied {
		return port.WebhookIgnored, nil
	}

	s.logger.Info("Payment marked as failed via webhook",
		zap.Uint64("payment", payment.ID))

	return port.WebhookApplied, nil
}

func amountMinorUnits(amount decimal.Decimal) (int64, error) {
	cents, err := amount.Mul(decimal.Hundred)
	if err != nil {
		return 0, err
	}
	whole, _, ok := cents.Round(0).Int64(0)
	if !ok {
		return 0, fmt.Errorf("amount %s overflows minor units", amount)
	}
	return whole, nil
}
