package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port/mock"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/service"
	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPaymentService_InitiatePayment(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	order := &domain.Order{
		ID:            10,
		UserID:        1,
		Number:        "ORD-123",
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		Total:         decimal.MustParse("122.00"),
	}

	t.Run("creates intent in minor units", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)

		repo.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)
		repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
				assert.Equal(t, domain.PaymentStatusPending, p.Status)
				assert.Equal(t, "122.00", p.Amount.String())
				p.ID = 5
				return p, nil
			})
		provider.EXPECT().CreateIntent(gomock.Any(), int64(12200), "usd", gomock.Any(),
			map[string]string{
				"order_id":     "10",
				"order_number": "ORD-123",
				"payment_id":   "5",
			}).
			Return(&port.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil)
		repo.EXPECT().UpdatePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
				require.NotNil(t, p.PaymentIntentID)
				assert.Equal(t, "pi_1", *p.PaymentIntentID)
				return p, nil
			})

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		initiated, err := s.InitiatePayment(context.Background(), order.ID, 1, domain.PaymentProviderStripe)
		require.NoError(t, err)
		assert.Equal(t, "pi_1_secret", initiated.ClientSecret)
	})

	t.Run("foreign order forbidden", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		_, err = s.InitiatePayment(context.Background(), order.ID, 99, domain.PaymentProviderStripe)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("paid order not payable", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		paid := *order
		paid.PaymentStatus = domain.PaymentStatusCompleted
		repo.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(&paid, nil)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		_, err = s.InitiatePayment(context.Background(), order.ID, 1, domain.PaymentProviderStripe)
		assert.ErrorIs(t, err, domain.ErrOrderNotPayable)
	})

	t.Run("paypal not supported yet", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		_, err = s.InitiatePayment(context.Background(), order.ID, 1, domain.PaymentProviderPaypal)
		assert.ErrorIs(t, err, domain.ErrProviderNotSupported)
	})

	t.Run("provider outage", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		repo.EXPECT().ReadOrder(gomock.Any(), order.ID).Return(order, nil)
		repo.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Payment) (*domain.Payment, error) {
				return p, nil
			})
		provider.EXPECT().CreateIntent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("connection refused"))

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		_, err = s.InitiatePayment(context.Background(), order.ID, 1, domain.PaymentProviderStripe)
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})
}

func succeededEvent(intentID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": %q,
			"amount": 12200,
			"currency": "usd",
			"status": "succeeded",
			"payment_method": "pm_card_visa"
		}}
	}`, intentID))
}

func failedEvent(intentID, message string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_2",
		"type": "payment_intent.payment_failed",
		"data": {"object": {
			"id": %q,
			"status": "requires_payment_method",
			"last_payment_error": {"message": %q}
		}}
	}`, intentID, message))
}

// reconcilePassthrough executes the reconciliation callback against the
// given payment and order, as the real row-locked transaction would.
func reconcilePassthrough(repo *mock.MockRepository, payment *domain.Payment,
	order *domain.Order, capture **domain.OrderStatusHistory) {
	repo.EXPECT().ReconcilePaymentTx(gomock.Any(), payment.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, fn port.ReconcileFn) error {
			hist, err := fn(payment, order)
			if err != nil {
				return err
			}
			if capture != nil {
				*capture = hist
			}
			return nil
		})
}

func TestPaymentService_HandleProviderEvent(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()
	intentID := "pi_1"

	newPending := func() (*domain.Payment, *domain.Order) {
		payment := &domain.Payment{
			ID:              5,
			OrderID:         10,
			Provider:        domain.PaymentProviderStripe,
			Status:          domain.PaymentStatusPending,
			PaymentIntentID: &intentID,
		}
		order := &domain.Order{
			ID:            10,
			Number:        "ORD-123",
			Status:        domain.OrderStatusPending,
			PaymentStatus: domain.PaymentStatusPending,
		}
		return payment, order
	}

	t.Run("success applies payment and order", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		payment, order := newPending()

		payload := succeededEvent(intentID)
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)
		repo.EXPECT().GetPaymentByIntentID(gomock.Any(), intentID).Return(payment, nil)
		var hist *domain.OrderStatusHistory
		reconcilePassthrough(repo, payment, order, &hist)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		outcome, err := s.HandleProviderEvent(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, port.WebhookApplied, outcome)

		assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
		assert.Equal(t, domain.OrderStatusPaid, order.Status)
		assert.Equal(t, domain.PaymentStatusCompleted, order.PaymentStatus)
		require.NotNil(t, order.TransactionID)
		assert.Equal(t, intentID, *order.TransactionID)
		assert.NotNil(t, order.PaidAt)

		require.NotNil(t, hist)
		assert.Nil(t, hist.UserID)
		assert.Equal(t, domain.OrderStatusPaid, hist.ToStatus)
	})

	t.Run("duplicate success is a no-op", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		payment, order := newPending()
		payment.Status = domain.PaymentStatusCompleted
		order.Status = domain.OrderStatusPaid
		order.PaymentStatus = domain.PaymentStatusCompleted

		payload := succeededEvent(intentID)
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)
		repo.EXPECT().GetPaymentByIntentID(gomock.Any(), intentID).Return(payment, nil)
		reconcilePassthrough(repo, payment, order, nil)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		outcome, err := s.HandleProviderEvent(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, port.WebhookIgnored, outcome)
		assert.Equal(t, domain.OrderStatusPaid, order.Status)
	})

	t.Run("failure after completion is a no-op", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		payment, order := newPending()
		payment.Status = domain.PaymentStatusCompleted
		order.Status = domain.OrderStatusPaid
		order.PaymentStatus = domain.PaymentStatusCompleted

		payload := failedEvent(intentID, "card declined")
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)
		repo.EXPECT().GetPaymentByIntentID(gomock.Any(), intentID).Return(payment, nil)
		reconcilePassthrough(repo, payment, order, nil)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		outcome, err := s.HandleProviderEvent(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, port.WebhookIgnored, outcome)
		assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	})

	t.Run("success after failure is a no-op", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		payment, order := newPending()
		payment.Status = domain.PaymentStatusFailed
		order.PaymentStatus = domain.PaymentStatusFailed

		payload := succeededEvent(intentID)
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)
		repo.EXPECT().GetPaymentByIntentID(gomock.Any(), intentID).Return(payment, nil)
		reconcilePassthrough(repo, payment, order, nil)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		outcome, err := s.HandleProviderEvent(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, port.WebhookIgnored, outcome)
		assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
	})

	t.Run("failure marks payment but keeps order open", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		payment, order := newPending()

		payload := failedEvent(intentID, "card declined")
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)
		repo.EXPECT().GetPaymentByIntentID(gomock.Any(), intentID).Return(payment, nil)
		var hist *domain.OrderStatusHistory
		reconcilePassthrough(repo, payment, order, &hist)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		outcome, err := s.HandleProviderEvent(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, port.WebhookApplied, outcome)

		assert.Equal(t, domain.PaymentStatusFailed, payment.Status)
		assert.Equal(t, domain.PaymentStatusFailed, order.PaymentStatus)
		// The customer may retry, so no lifecycle change and no audit row.
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Nil(t, hist)
	})

	t.Run("success for cancelled order keeps money recorded", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		payment, order := newPending()
		order.Status = domain.OrderStatusCancelled

		payload := succeededEvent(intentID)
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)
		repo.EXPECT().GetPaymentByIntentID(gomock.Any(), intentID).Return(payment, nil)
		var hist *domain.OrderStatusHistory
		reconcilePassthrough(repo, payment, order, &hist)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		outcome, err := s.HandleProviderEvent(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, port.WebhookApplied, outcome)

		assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
		assert.Equal(t, domain.OrderStatusCancelled, order.Status)
		assert.Contains(t, payment.Metadata, "reconciliation_anomaly")
		assert.Nil(t, hist)
	})

	t.Run("bad signature touches nothing", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)

		payload := succeededEvent(intentID)
		provider.EXPECT().VerifySignature(payload, "bad").Return(domain.ErrWebhookBadSignature)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		_, err = s.HandleProviderEvent(context.Background(), payload, "bad")
		assert.ErrorIs(t, err, domain.ErrWebhookBadSignature)
	})

	t.Run("malformed payload", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)

		payload := []byte(`{"type": "payment_intent.succeeded", "data":`)
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		_, err = s.HandleProviderEvent(context.Background(), payload, "sig")
		assert.ErrorIs(t, err, domain.ErrWebhookBadPayload)
	})

	t.Run("unknown payment acknowledged as unresolved", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)

		payload := succeededEvent("pi_unknown")
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)
		repo.EXPECT().GetPaymentByIntentID(gomock.Any(), "pi_unknown").
			Return(nil, domain.ErrDataNotFound)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		outcome, err := s.HandleProviderEvent(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, port.WebhookUnresolved, outcome)
	})

	t.Run("fallback to metadata payment id", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)
		payment, order := newPending()

		payload := []byte(`{
			"type": "payment_intent.succeeded",
			"data": {"object": {
				"id": "pi_other",
				"metadata": {"payment_id": "5"}
			}}
		}`)
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)
		repo.EXPECT().GetPaymentByIntentID(gomock.Any(), "pi_other").
			Return(nil, domain.ErrDataNotFound)
		repo.EXPECT().ReadPayment(gomock.Any(), uint64(5)).Return(payment, nil)
		reconcilePassthrough(repo, payment, order, nil)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		outcome, err := s.HandleProviderEvent(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, port.WebhookApplied, outcome)
		assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	})

	t.Run("unhandled event type ignored", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		provider := mock.NewMockPaymentProviderClient(mockCtrl)

		payload := []byte(`{"type": "charge.refunded", "data": {"object": {"id": "pi_1"}}}`)
		provider.EXPECT().VerifySignature(payload, "sig").Return(nil)

		s, err := service.NewPaymentService(repo, provider, logger)
		require.NoError(t, err)

		outcome, err := s.HandleProviderEvent(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, port.WebhookIgnored, outcome)
	})
}
