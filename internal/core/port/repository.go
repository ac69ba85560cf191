package port

import (
	"context"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
)

// BuildOrderFn turns the locked cart contents into an order. It runs
// inside the checkout transaction; returning an error rolls everything
// back (no order, no stock decrement, cart untouched).
type BuildOrderFn func(cart []*domain.CartItem) (*domain.Order, error)

// UpdateOrderFn mutates a row-locked order. A non-nil history entry is
// appended to the audit trail in the same transaction.
type UpdateOrderFn func(order *domain.Order) (*domain.OrderStatusHistory, error)

// ReconcileFn mutates a row-locked payment together with its order.
type ReconcileFn func(payment *domain.Payment, order *domain.Order) (*domain.OrderStatusHistory, error)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)

	// Product
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64) error
	ReadProduct(ctx context.Context, id uint64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error)

	// Category
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint64) error
	ReadCategory(ctx context.Context, id uint64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	ListProductsByCategory(ctx context.Context, categoryID uint64) ([]*domain.Product, error)

	// Cart
	ListCartItems(ctx context.Context, userID uint64) ([]*domain.CartItem, error)
	UpsertCartItem(ctx context.Context, userID, productID uint64, quantity uint32) (*domain.CartItem, bool, error)
	ReadCartItem(ctx context.Context, id uint64) (*domain.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id uint64, quantity uint32) (*domain.CartItem, error)
	DeleteCartItem(ctx context.Context, id uint64) error
	ClearCart(ctx context.Context, userID uint64) error

	// Order
	PlaceOrder(ctx context.Context, userID uint64, build BuildOrderFn) (*domain.Order, error)
	ReadOrder(ctx context.Context, id uint64) (*domain.Order, error)
	ReadOrderByNumber(ctx context.Context, number string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	UpdateOrderTx(ctx context.Context, orderID uint64, fn UpdateOrderFn) (*domain.Order, error)
	ListOrderStatusHistory(ctx context.Context, orderID uint64) ([]*domain.OrderStatusHistory, error)

	// Payment
	CreatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	ReadPayment(ctx context.Context, id uint64) (*domain.Payment, error)
	GetPaymentByIntentID(ctx context.Context, intentID string) (*domain.Payment, error)
	ReconcilePaymentTx(ctx context.Context, paymentID uint64, fn ReconcileFn) error
}
