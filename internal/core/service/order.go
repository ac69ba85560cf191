package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/utils"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

var (
	taxRate          = decimal.MustParse("0.15")
	flatShippingCost = decimal.MustParse("7.00")
)

// orderNumberAttempts bounds regeneration when a generated order number
// collides with an existing one.
const orderNumberAttempts = 5

type OrderService struct {
	repo   port.Repository
	logger *zap.Logger
}

func NewOrderService(repo port.Repository, logger *zap.Logger) (*OrderService, error) {
	return &OrderService{repo: repo, logger: logger}, nil
}

// transition applies the status state machine to a row-locked order and
// produces the single audit row for the change. It is the only place
// order.Status is assigned.
func transition(o *domain.Order, to domain.OrderStatus, actorID *uint64,
	notes string) (*domain.OrderStatusHistory, error) {
	if o.Status == to {
		return nil, domain.ErrOrderSelfTransition
	}
	if !o.Status.CanTransitionTo(to) {
		return nil, &domain.InvalidTransitionError{From: o.Status, To: to}
	}

	from := o.Status
	o.Status = to

	return &domain.OrderStatusHistory{
		OrderID:    o.ID,
		FromStatus: &from,
		ToStatus:   to,
		UserID:     actorID,
		Notes:      notes,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (s *OrderService) Checkout(ctx context.Context, userID uint64, input port.CheckoutInput) (*domain.Order, error) {
	var order *domain.Order
	var err error

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order, err = s.repo.PlaceOrder(ctx, userID, func(cart []*domain.CartItem) (*domain.Order, error) {
			return buildOrder(userID, input, cart)
		})
		if errors.Is(err, domain.ErrConflictingData) {
			// order number collision, regenerate
			continue
		}
		break
	}
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		s.logger.Error("Checkout", zap.Uint64("user", userID), zap.Error(err))
		return nil, domain.ErrInternal
	}

	s.logger.Info("Order placed",
		zap.String("order", order.Number),
		zap.Uint64("user", userID),
		zap.String("total", order.Total.String()))

	return order, nil
}

// buildOrder validates the locked cart and snapshots it into an order.
// Runs inside the checkout transaction; any error rolls the whole
// checkout back.
func buildOrder(userID uint64, input port.CheckoutInput, cart []*domain.CartItem) (*domain.Order, error) {
	if len(cart) == 0 {
		return nil, domain.ErrCartEmpty
	}

	subtotal := decimal.Zero
	items := make([]domain.OrderItem, 0, len(cart))

	for _, line := range cart {
		product := line.Product
		if !product.IsActive {
			return nil, fmt.Errorf("%w: %q", domain.ErrProductInactive, product.Name)
		}
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("%w: %q", domain.ErrInsufficientStock, product.Name)
		}

		qty, err := decimal.New(int64(line.Quantity), 0)
		if err != nil {
			return nil, fmt.Errorf("math error: %w", err)
		}
		lineSubtotal, err := product.Price.Mul(qty)
		if err != nil {
			return nil, fmt.Errorf("math error: %w", err)
		}
		lineSubtotal = lineSubtotal.Round(2)

		subtotal, err = subtotal.Add(lineSubtotal)
		if err != nil {
			return nil, fmt.Errorf("math error: %w", err)
		}

		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    line.Quantity,
			Price:       product.Price,
			Subtotal:    lineSubtotal,
		})
	}

	tax, err := subtotal.Mul(taxRate)
	if err != nil {
		return nil, fmt.Errorf("math error: %w", err)
	}
	tax = tax.Round(2)

	total, err := subtotal.Add(tax)
	if err != nil {
		return nil, fmt.Errorf("math error: %w", err)
	}
	total, err = total.Add(flatShippingCost)
	if err != nil {
		return nil, fmt.Errorf("math error: %w", err)
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cod"
	}

	return &domain.Order{
		UserID:          userID,
		Number:          utils.NewOrderNumber(time.Now()),
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingCost:    flatShippingCost,
		Total:           total.Round(2),
		ShippingName:    input.ShippingName,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingState:   input.ShippingState,
		ShippingZipcode: input.ShippingZipcode,
		ShippingCountry: input.ShippingCountry,
		ShippingPhone:   input.ShippingPhone,
		PaymentMethod:   paymentMethod,
		Notes:           input.Notes,
		Items:           items,
	}, nil
}

func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrCartEmpty) ||
		errors.Is(err, domain.ErrProductInactive) ||
		errors.Is(err, domain.ErrInsufficientStock)
}

func (s *OrderService) GetOrdersByUser(ctx context.Context, userID uint64) ([]*domain.Order, error) {
	list, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Get orders for user", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// GetUserOrder returns the order only when it belongs to the user; a
// foreign order reads as not found so its existence does not leak.
func (s *OrderService) GetUserOrder(ctx context.Context, userID, orderID uint64) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrDataNotFound
	}

	order.StatusHistory, err = s.repo.ListOrderStatusHistory(ctx, order.ID)
	if err != nil {
		s.logger.Error("List order history", zap.Error(err))
		return nil, err
	}

	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	list, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		s.logger.Error("List orders", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.StatusHistory, err = s.repo.ListOrderStatusHistory(ctx, order.ID)
	if err != nil {
		s.logger.Error("List order history", zap.Error(err))
		return nil, err
	}

	return order, nil
}

func (s *OrderService) TransitionOrder(ctx context.Context, orderID uint64, to domain.OrderStatus,
	actorID *uint64, notes string) (*domain.Order, error) {
	order, err := s.repo.UpdateOrderTx(ctx, orderID, func(o *domain.Order) (*domain.OrderStatusHistory, error) {
		return transition(o, to, actorID, notes)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("order", order.Number),
		zap.String("status", string(to)))

	return order, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, orderID uint64, actorID *uint64, reason string) (*domain.Order, error) {
	order, err := s.repo.UpdateOrderTx(ctx, orderID, func(o *domain.Order) (*domain.OrderStatusHistory, error) {
		if !o.CanBeCancelled() {
			return nil, domain.ErrOrderNotCancellable
		}
		return transition(o, domain.OrderStatusCancelled, actorID, "Cancelled: "+reason)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled", zap.String("order", order.Number))

	return order, nil
}
