package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Business errors.
	ErrCartEmpty              = errors.New("cart is empty")
	ErrProductInactive        = errors.New("product is no longer available")
	ErrInsufficientStock      = errors.New("not enough stock for product")
	ErrOrderBadStatus         = errors.New("unknown order status")
	ErrOrderSelfTransition    = errors.New("order is already in the requested status")
	ErrOrderInvalidTransition = errors.New("order status transition is not allowed")
	ErrOrderNotCancellable    = errors.New("order cannot be cancelled in its current status")
	ErrOrderNotPayable        = errors.New("order cannot accept payment")
	ErrPaymentFinal           = errors.New("payment is already in a final state")
	ErrProviderNotSupported   = errors.New("payment provider not supported")
	ErrProviderUnavailable    = errors.New("payment provider request failed")
	ErrWebhookBadSignature    = errors.New("webhook signature verification failed")
	ErrWebhookBadPayload      = errors.New("webhook payload is malformed")
)

// InvalidTransitionError names both states of a rejected transition.
// It matches ErrOrderInvalidTransition under errors.Is.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order status transition from %q to %q is not allowed", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrOrderInvalidTransition
}
