package port

import (
	"context"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/govalues/decimal"
)

type UserService interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, email string, password string) (string, error)
	GetProfile(ctx context.Context, userID uint64) (*domain.User, error)
}

// ProductUpdate holds the fields of a partial product update; nil means
// "leave unchanged".
type ProductUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *uint32
	SKU         *string
	IsActive    *bool
	CategoryIDs *[]uint64
}

type CategoryUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	IsActive    *bool
	ParentID    *uint64
}

type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uint64, upd ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64) error
	FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id uint64) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uint64, upd CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint64) error
	GetCategoryProducts(ctx context.Context, categoryID uint64) ([]*domain.Product, error)
}

type CartService interface {
	GetCart(ctx context.Context, userID uint64) ([]*domain.CartItem, decimal.Decimal, error)
	AddToCart(ctx context.Context, userID, productID uint64, quantity uint32) (*domain.CartItem, bool, error)
	UpdateCartItem(ctx context.Context, userID, itemID uint64, quantity uint32) (*domain.CartItem, error)
	RemoveCartItem(ctx context.Context, userID, itemID uint64) error
	ClearCart(ctx context.Context, userID uint64) error
}

// CheckoutInput is the shipping and payment-method detail a customer
// submits at checkout.
type CheckoutInput struct {
	ShippingName    string
	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZipcode string
	ShippingCountry string
	ShippingPhone   string
	PaymentMethod   string
	Notes           string
}

type OrderService interface {
	Checkout(ctx context.Context, userID uint64, input CheckoutInput) (*domain.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)
	GetUserOrder(ctx context.Context, userID, orderID uint64) (*domain.Order, error)

	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error)
	TransitionOrder(ctx context.Context, orderID uint64, to domain.OrderStatus,
		actorID *uint64, notes string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID uint64, actorID *uint64, reason string) (*domain.Order, error)
}

// InitiatedPayment is returned to the client so it can complete the
// payment out-of-band with the provider.
type InitiatedPayment struct {
	Payment      *domain.Payment
	ClientSecret string
}

// WebhookOutcome classifies what a provider event delivery did.
type WebhookOutcome string

const (
	// WebhookApplied means local state changed.
	WebhookApplied WebhookOutcome = "applied"
	// WebhookIgnored means the event type is not meaningful or the
	// idempotency gate made it a no-op.
	WebhookIgnored WebhookOutcome = "ignored"
	// WebhookUnresolved means no local payment matched; acknowledged so
	// the provider stops redelivering.
	WebhookUnresolved WebhookOutcome = "unresolved"
)

type PaymentService interface {
	InitiatePayment(ctx context.Context, orderID, userID uint64,
		provider domain.PaymentProvider) (*InitiatedPayment, error)
	GetPayment(ctx context.Context, paymentID, userID uint64) (*domain.Payment, *domain.Order, error)
	HandleProviderEvent(ctx context.Context, payload []byte, sigHeader string) (WebhookOutcome, error)
}
