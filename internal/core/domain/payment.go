package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// IsFinal reports whether the status may never change again. This is the
// idempotency boundary for webhook redelivery.
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

type PaymentProvider string

const (
	PaymentProviderStripe PaymentProvider = "stripe"
	PaymentProviderPaypal PaymentProvider = "paypal"
)

func PaymentProviderValues() []PaymentProvider {
	return []PaymentProvider{PaymentProviderStripe, PaymentProviderPaypal}
}

func ParsePaymentProvider(s string) (PaymentProvider, error) {
	for _, p := range PaymentProviderValues() {
		if PaymentProvider(s) == p {
			return p, nil
		}
	}
	return "", ErrProviderNotSupported
}

type Payment struct {
	ID              uint64
	OrderID         uint64
	UserID          uint64
	Provider        PaymentProvider
	Amount          decimal.Decimal
	Currency        string
	Status          PaymentStatus
	PaymentIntentID *string
	Metadata        map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MergeMetadata copies entries into the payment's metadata map, keeping
// existing keys that are not overwritten.
func (p *Payment) MergeMetadata(entries map[string]any) {
	if p.Metadata == nil {
		p.Metadata = make(map[string]any, len(entries))
	}
	for k, v := range entries {
		p.Metadata[k] = v
	}
}
