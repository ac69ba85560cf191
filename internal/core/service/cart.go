package service

import (
	"context"
	"fmt"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type CartService struct {
	repo   port.Repository
	logger *zap.Logger
}

func NewCartService(repo port.Repository, logger *zap.Logger) (*CartService, error) {
	return &CartService{repo: repo, logger: logger}, nil
}

func (s *CartService) GetCart(ctx context.Context, userID uint64) ([]*domain.CartItem, decimal.Decimal, error) {
	items, err := s.repo.ListCartItems(ctx, userID)
	if err != nil {
		s.logger.Error("List cart items", zap.Error(err))
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		line, err := item.Product.Price.Mul(decimal.MustNew(int64(item.Quantity), 0))
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("math error: %w", err)
		}
		total, err = total.Add(line)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("math error: %w", err)
		}
	}

	return items, total, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uint64, quantity uint32) (*domain.CartItem, bool, error) {
	product, err := s.repo.ReadProduct(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	if !product.IsActive {
		return nil, false, domain.ErrProductInactive
	}

	return s.repo.UpsertCartItem(ctx, userID, productID, quantity)
}

func (s *CartService) UpdateCartItem(ctx context.Context, userID, itemID uint64, quantity uint32) (*domain.CartItem, error) {
	item, err := s.repo.ReadCartItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, domain.ErrForbidden
	}

	return s.repo.UpdateCartItemQuantity(ctx, itemID, quantity)
}

func (s *CartService) RemoveCartItem(ctx context.Context, userID, itemID uint64) error {
	item, err := s.repo.ReadCartItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return domain.ErrForbidden
	}

	return s.repo.DeleteCartItem(ctx, itemID)
}

func (s *CartService) ClearCart(ctx context.Context, userID uint64) error {
	return s.repo.ClearCart(ctx, userID)
}
