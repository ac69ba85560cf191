package port

import "context"

// PaymentIntent is the provider-side handle for a payment attempt.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

//go:generate mockgen -source=payment.go -destination=mock/payment.go -package=mock
type PaymentProviderClient interface {
	// CreateIntent registers a payment attempt with the provider.
	// Amount is in minor currency units.
	CreateIntent(ctx context.Context, amountMinor int64, currency string,
		description string, metadata map[string]string) (*PaymentIntent, error)
	// VerifySignature authenticates a raw webhook payload against the
	// provider's signature header. Must be called before the payload is
	// parsed or any state is touched.
	VerifySignature(payload []byte, sigHeader string) error
}
