package domain_test

import (
	"testing"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	allowed := map[domain.OrderStatus][]domain.OrderStatus{
		domain.OrderStatusPending:    {domain.OrderStatusPaid, domain.OrderStatusCancelled},
		domain.OrderStatusPaid:       {domain.OrderStatusProcessing, domain.OrderStatusCancelled},
		domain.OrderStatusProcessing: {domain.OrderStatusShipped, domain.OrderStatusCancelled},
		domain.OrderStatusShipped:    {domain.OrderStatusDelivered},
		domain.OrderStatusDelivered:  {},
		domain.OrderStatusCancelled:  {},
	}

	for _, from := range domain.OrderStatusValues() {
		for _, to := range domain.OrderStatusValues() {
			expect := false
			for _, a := range allowed[from] {
				if a == to {
					expect = true
				}
			}
			assert.Equalf(t, expect, from.CanTransitionTo(to),
				"%s -> %s", from, to)
		}
	}
}

func TestOrderStatus_AllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]domain.OrderStatus{domain.OrderStatusPaid, domain.OrderStatusCancelled},
		domain.OrderStatusPending.AllowedTransitions())
	assert.Empty(t, domain.OrderStatusDelivered.AllowedTransitions())
	assert.Empty(t, domain.OrderStatusCancelled.AllowedTransitions())
}

func TestOrderStatus_IsFinal(t *testing.T) {
	assert.True(t, domain.OrderStatusDelivered.IsFinal())
	assert.True(t, domain.OrderStatusCancelled.IsFinal())
	assert.False(t, domain.OrderStatusPending.IsFinal())
	assert.False(t, domain.OrderStatusShipped.IsFinal())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := domain.ParseOrderStatus("shipped")
	assert.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, status)

	_, err = domain.ParseOrderStatus("SHIPPED")
	assert.ErrorIs(t, err, domain.ErrOrderBadStatus)

	_, err = domain.ParseOrderStatus("refunded")
	assert.ErrorIs(t, err, domain.ErrOrderBadStatus)
}

func TestOrder_CanBeCancelled(t *testing.T) {
	tests := []struct {
		status domain.OrderStatus
		want   bool
	}{
		{domain.OrderStatusPending, true},
		{domain.OrderStatusPaid, true},
		{domain.OrderStatusProcessing, true},
		{domain.OrderStatusShipped, false},
		{domain.OrderStatusDelivered, false},
		{domain.OrderStatusCancelled, false},
	}

	for _, test := range tests {
		order := domain.Order{Status: test.status}
		assert.Equalf(t, test.want, order.CanBeCancelled(), "status %s", test.status)
	}
}

func TestOrder_CanAcceptPayment(t *testing.T) {
	assert.True(t, (&domain.Order{PaymentStatus: domain.PaymentStatusPending}).CanAcceptPayment())
	assert.True(t, (&domain.Order{PaymentStatus: domain.PaymentStatusFailed}).CanAcceptPayment())
	assert.False(t, (&domain.Order{PaymentStatus: domain.PaymentStatusCompleted}).CanAcceptPayment())
}

func TestOrderStatus_Label(t *testing.T) {
	assert.Equal(t, "Pending Payment", domain.OrderStatusPending.Label())
	assert.Equal(t, "Being Prepared", domain.OrderStatusProcessing.Label())
	assert.Equal(t, "Cancelled", domain.OrderStatusCancelled.Label())
}

func TestInvalidTransitionError(t *testing.T) {
	err := &domain.InvalidTransitionError{
		From: domain.OrderStatusPending,
		To:   domain.OrderStatusShipped,
	}
	assert.ErrorIs(t, err, domain.ErrOrderInvalidTransition)
	assert.Contains(t, err.Error(), "pending")
	assert.Contains(t, err.Error(), "shipped")
}

func TestOrderStatusHistory_ActorName(t *testing.T) {
	h := domain.OrderStatusHistory{}
	assert.Equal(t, domain.SystemActor, h.ActorName())

	userID := uint64(7)
	h.UserID = &userID
	assert.NotEqual(t, domain.SystemActor, h.ActorName())
}
