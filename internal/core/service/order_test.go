package service_test

import (
	"context"
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

func testProduct(id uint64, name, price string, stock uint32) *domain.Product {
	return &domain.Product{
		ID:       id,
		Name:     name,
		SKU:      "SKU-" + name,
		Price:    decimal.MustParse(price),
		Stock:    stock,
		IsActive: true,
	}
}

// placeOrderPassthrough makes the mocked repository execute the checkout
// build callback against the given cart, the way the real transaction
// does, and hand back whatever order it produced.
func placeOrderPassthrough(repo *mock.MockRepository, cart []*domain.CartItem) {
	repo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, build port.BuildOrderFn) (*domain.Order, error) {
			return build(cart)
		})
}

func TestOrderService_Checkout(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	input := port.CheckoutInput{
		ShippingName:    "John Smith",
		ShippingAddress: "1 Main st",
		ShippingCity:    "Springfield",
		ShippingState:   "IL",
		ShippingZipcode: "62704",
		ShippingCountry: "US",
		ShippingPhone:   "+15550100",
		PaymentMethod:   "card",
	}

	t.Run("totals from cart", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		cart := []*domain.CartItem{
			{ProductID: 1, Quantity: 1, Product: testProduct(1, "Keyboard", "50.00", 10)},
			{ProductID: 2, Quantity: 2, Product: testProduct(2, "Mouse", "25.00", 10)},
		}
		placeOrderPassthrough(repo, cart)

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		order, err := s.Checkout(context.Background(), 1, input)
		require.NoError(t, err)

		assert.Equal(t, "100.00", order.Subtotal.String())
		assert.Equal(t, "15.00", order.Tax.String())
		assert.Equal(t, "7.00", order.ShippingCost.String())
		assert.Equal(t, "122.00", order.Total.String())

		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus)
		assert.Regexp(t, `^ORD-\d{6}[0-9A-F]{6}$`, order.Number)

		require.Len(t, order.Items, 2)
		assert.Equal(t, "Keyboard", order.Items[0].ProductName)
		assert.Equal(t, "50.00", order.Items[0].Subtotal.String())
		assert.Equal(t, "50.00", order.Items[1].Subtotal.String())
	})

	t.Run("empty cart", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		placeOrderPassthrough(repo, nil)

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		_, err = s.Checkout(context.Background(), 1, input)
		assert.ErrorIs(t, err, domain.ErrCartEmpty)
	})

	t.Run("inactive product", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		product := testProduct(1, "Keyboard", "50.00", 10)
		product.IsActive = false
		placeOrderPassthrough(repo, []*domain.CartItem{
			{ProductID: 1, Quantity: 1, Product: product},
		})

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		_, err = s.Checkout(context.Background(), 1, input)
		assert.ErrorIs(t, err, domain.ErrProductInactive)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		placeOrderPassthrough(repo, []*domain.CartItem{
			{ProductID: 1, Quantity: 5, Product: testProduct(1, "Keyboard", "50.00", 2)},
		})

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		_, err = s.Checkout(context.Background(), 1, input)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})

	t.Run("order number collision retried", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		cart := []*domain.CartItem{
			{ProductID: 1, Quantity: 1, Product: testProduct(1, "Keyboard", "50.00", 10)},
		}
		first := repo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, domain.ErrConflictingData)
		repo.EXPECT().PlaceOrder(gomock.Any(), gomock.Any(), gomock.Any()).
			After(first).
			DoAndReturn(func(_ context.Context, _ uint64, build port.BuildOrderFn) (*domain.Order, error) {
				return build(cart)
			})

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		order, err := s.Checkout(context.Background(), 1, input)
		require.NoError(t, err)
		assert.Equal(t, "64.50", order.Total.String())
	})
}

// updateOrderPassthrough runs the mutation callback against the given
// order the way the real row-locked transaction does.
func updateOrderPassthrough(repo *mock.MockRepository, order *domain.Order,
	capture **domain.OrderStatusHistory) {
	repo.EXPECT().UpdateOrderTx(gomock.Any(), order.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uint64, fn port.UpdateOrderFn) (*domain.Order, error) {
			hist, err := fn(order)
			if err != nil {
				return nil, err
			}
			if capture != nil {
				*capture = hist
			}
			return order, nil
		})
}

func TestOrderService_TransitionOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()
	actorID := uint64(42)

	t.Run("pending to paid", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		order := &domain.Order{ID: 1, Number: "ORD-1", Status: domain.OrderStatusPending}
		var hist *domain.OrderStatusHistory
		updateOrderPassthrough(repo, order, &hist)

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		result, err := s.TransitionOrder(context.Background(), 1, domain.OrderStatusPaid, &actorID, "manual")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPaid, result.Status)

		require.NotNil(t, hist)
		require.NotNil(t, hist.FromStatus)
		assert.Equal(t, domain.OrderStatusPending, *hist.FromStatus)
		assert.Equal(t, domain.OrderStatusPaid, hist.ToStatus)
		assert.Equal(t, &actorID, hist.UserID)
		assert.Equal(t, "manual", hist.Notes)
	})

	t.Run("pending to processing rejected", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		order := &domain.Order{ID: 1, Status: domain.OrderStatusPending}
		updateOrderPassthrough(repo, order, nil)

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		_, err = s.TransitionOrder(context.Background(), 1, domain.OrderStatusProcessing, &actorID, "")
		assert.ErrorIs(t, err, domain.ErrOrderInvalidTransition)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
	})

	t.Run("self transition rejected", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		order := &domain.Order{ID: 1, Status: domain.OrderStatusPaid}
		updateOrderPassthrough(repo, order, nil)

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		_, err = s.TransitionOrder(context.Background(), 1, domain.OrderStatusPaid, &actorID, "")
		assert.ErrorIs(t, err, domain.ErrOrderSelfTransition)
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		order := &domain.Order{ID: 1, Status: domain.OrderStatusDelivered}
		updateOrderPassthrough(repo, order, nil)

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		_, err = s.TransitionOrder(context.Background(), 1, domain.OrderStatusCancelled, &actorID, "")
		assert.ErrorIs(t, err, domain.ErrOrderInvalidTransition)
	})
}

func TestOrderService_CancelOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()
	actorID := uint64(42)

	t.Run("cancel processing order", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		order := &domain.Order{ID: 1, Number: "ORD-1", Status: domain.OrderStatusProcessing}
		var hist *domain.OrderStatusHistory
		updateOrderPassthrough(repo, order, &hist)

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		result, err := s.CancelOrder(context.Background(), 1, &actorID, "changed my mind")
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, result.Status)

		require.NotNil(t, hist)
		assert.Equal(t, "Cancelled: changed my mind", hist.Notes)
	})

	t.Run("shipped order not cancellable", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		order := &domain.Order{ID: 1, Status: domain.OrderStatusShipped}
		updateOrderPassthrough(repo, order, nil)

		s, err := service.NewOrderService(repo, logger)
		require.NoError(t, err)

		_, err = s.CancelOrder(context.Background(), 1, &actorID, "too late")
		assert.ErrorIs(t, err, domain.ErrOrderNotCancellable)
		assert.Equal(t, domain.OrderStatusShipped, order.Status)
	})
}

func TestOrderService_GetUserOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	repo := mock.NewMockRepository(mockCtrl)
	order := &domain.Order{ID: 1, UserID: 1}
	repo.EXPECT().ReadOrder(gomock.Any(), uint64(1)).Return(order, nil).Times(2)
	repo.EXPECT().ListOrderStatusHistory(gomock.Any(), uint64(1)).
		Return([]*domain.OrderStatusHistory{}, nil)

	s, err := service.NewOrderService(repo, logger)
	require.NoError(t, err)

	result, err := s.GetUserOrder(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, order, result)

	// A foreign order reads as missing, not forbidden.
	_, err = s.GetUserOrder(context.Background(), 2, 1)
	assert.ErrorIs(t, err, domain.ErrDataNotFound)
}
