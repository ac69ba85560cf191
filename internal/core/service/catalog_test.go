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

func TestCatalogService_CreateProduct(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	repo := mock.NewMockRepository(mockCtrl)
	repo.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
			assert.Equal(t, "gaming-keyboard", p.Slug)
			assert.Equal(t, []uint64{3, 7}, p.CategoryIDs)
			p.ID = 1
			return p, nil
		})

	s, err := service.NewCatalogService(repo, logger)
	require.NoError(t, err)

	created, err := s.CreateProduct(context.Background(), &domain.Product{
		Name:        "Gaming Keyboard",
		SKU:         "KB-01",
		Price:       decimal.MustParse("49.99"),
		IsActive:    true,
		CategoryIDs: []uint64{3, 7},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), created.ID)
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	t.Run("partial update keeps unnamed fields", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		existing := &domain.Product{
			ID:          1,
			Name:        "Gaming Keyboard",
			Slug:        "gaming-keyboard",
			Price:       decimal.MustParse("49.99"),
			Stock:       10,
			SKU:         "KB-01",
			IsActive:    true,
			CategoryIDs: []uint64{3},
		}
		repo.EXPECT().ReadProduct(gomock.Any(), uint64(1)).Return(existing, nil)
		repo.EXPECT().UpdateProduct(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
				return p, nil
			})

		s, err := service.NewCatalogService(repo, logger)
		require.NoError(t, err)

		stock := uint32(5)
		updated, err := s.UpdateProduct(context.Background(), 1, port.ProductUpdate{Stock: &stock})
		require.NoError(t, err)

		assert.Equal(t, uint32(5), updated.Stock)
		assert.Equal(t, "Gaming Keyboard", updated.Name)
		assert.Equal(t, []uint64{3}, updated.CategoryIDs)
	})

	t.Run("rename regenerates slug", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		existing := &domain.Product{ID: 1, Name: "Gaming Keyboard", Slug: "gaming-keyboard"}
		repo.EXPECT().ReadProduct(gomock.Any(), uint64(1)).Return(existing, nil)
		repo.EXPECT().UpdateProduct(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
				return p, nil
			})

		s, err := service.NewCatalogService(repo, logger)
		require.NoError(t, err)

		name := "Mechanical Keyboard"
		updated, err := s.UpdateProduct(context.Background(), 1, port.ProductUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "mechanical-keyboard", updated.Slug)
	})

	t.Run("replace categories", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		existing := &domain.Product{ID: 1, Name: "Gaming Keyboard", CategoryIDs: []uint64{3}}
		repo.EXPECT().ReadProduct(gomock.Any(), uint64(1)).Return(existing, nil)
		repo.EXPECT().UpdateProduct(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
				return p, nil
			})

		s, err := service.NewCatalogService(repo, logger)
		require.NoError(t, err)

		ids := []uint64{5, 9}
		updated, err := s.UpdateProduct(context.Background(), 1, port.ProductUpdate{CategoryIDs: &ids})
		require.NoError(t, err)
		assert.Equal(t, []uint64{5, 9}, updated.CategoryIDs)
	})
}

func TestCatalogService_CreateCategory(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	t.Run("slug generated from name", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, c *domain.Category) (*domain.Category, error) {
				assert.Equal(t, "office-electronics", c.Slug)
				c.ID = 1
				return c, nil
			})

		s, err := service.NewCatalogService(repo, logger)
		require.NoError(t, err)

		created, err := s.CreateCategory(context.Background(), &domain.Category{Name: "Office Electronics"})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), created.ID)
	})

	t.Run("taken slug salted and retried", func(t *testing.T) {
		repo := mock.NewMockRepository(mockCtrl)
		first := repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).
			Return(nil, domain.ErrConflictingData)
		repo.EXPECT().CreateCategory(gomock.Any(), gomock.Any()).
			After(first).
			DoAndReturn(func(_ context.Context, c *domain.Category) (*domain.Category, error) {
				assert.Regexp(t, `^office-electronics-\d+$`, c.Slug)
				return c, nil
			})

		s, err := service.NewCatalogService(repo, logger)
		require.NoError(t, err)

		_, err = s.CreateCategory(context.Background(), &domain.Category{Name: "Office Electronics"})
		require.NoError(t, err)
	})
}
