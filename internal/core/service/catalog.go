package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/utils"
	"go.uber.org/zap"
)

type CatalogService struct {
	repo   port.Repository
	logger *zap.Logger
}

func NewCatalogService(repo port.Repository, logger *zap.Logger) (*CatalogService, error) {
	return &CatalogService{repo: repo, logger: logger}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, domain.ProductFilter{})
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	return s.repo.ReadProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product.Slug == "" {
		product.Slug = utils.Slugify(product.Name)
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Error("Create product", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint64, upd port.ProductUpdate) (*domain.Product, error) {
	product, err := s.repo.ReadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		product.Name = *upd.Name
		// renaming regenerates the slug, same as the admin UI expects
		product.Slug = utils.Slugify(*upd.Name)
	}
	if upd.Slug != nil {
		product.Slug = utils.Slugify(*upd.Slug)
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.Stock != nil {
		product.Stock = *upd.Stock
	}
	if upd.SKU != nil {
		product.SKU = *upd.SKU
	}
	if upd.IsActive != nil {
		product.IsActive = *upd.IsActive
	}
	if upd.CategoryIDs != nil {
		product.CategoryIDs = *upd.CategoryIDs
	}

	return s.repo.UpdateProduct(ctx, product)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint64) error {
	return s.repo.DeleteProduct(ctx, id)
}

func (s *CatalogService) FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint64) (*domain.Category, error) {
	return s.repo.ReadCategory(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category.Slug == "" {
		category.Slug = utils.Slugify(category.Name)
	} else {
		category.Slug = utils.Slugify(category.Slug)
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if errors.Is(err, domain.ErrConflictingData) {
		// slug taken, salt it and retry once
		category.Slug = fmt.Sprintf("%s-%d", category.Slug, rand.Intn(99999)+1)
		created, err = s.repo.CreateCategory(ctx, category)
	}
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Error("Create category", zap.Error(err))
		return nil, domain.ErrInternal
	}
	return created, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint64, upd port.CategoryUpdate) (*domain.Category, error) {
	category, err := s.repo.ReadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		category.Name = *upd.Name
		category.Slug = utils.Slugify(*upd.Name)
	}
	if upd.Slug != nil {
		category.Slug = utils.Slugify(*upd.Slug)
	}
	if upd.Description != nil {
		category.Description = *upd.Description
	}
	if upd.IsActive != nil {
		category.IsActive = *upd.IsActive
	}
	if upd.ParentID != nil {
		category.ParentID = upd.ParentID
	}

	updated, err := s.repo.UpdateCategory(ctx, category)
	if errors.Is(err, domain.ErrConflictingData) {
		category.Slug = fmt.Sprintf("%s-%d", category.Slug, rand.Intn(99999)+1)
		updated, err = s.repo.UpdateCategory(ctx, category)
	}
	return updated, err
}

// DeleteCategory removes the category; the repository reparents its
// children to the deleted node's own parent in the same transaction.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *CatalogService) GetCategoryProducts(ctx context.Context, categoryID uint64) ([]*domain.Product, error) {
	if _, err := s.repo.ReadCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo.ListProductsByCategory(ctx, categoryID)
}
