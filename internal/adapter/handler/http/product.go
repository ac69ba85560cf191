package http

import (
	"net/http"
	"strconv"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type ProductHandler struct {
	Handler
	service port.CatalogService
}

func NewProductHandler(service port.CatalogService, logger *zap.Logger) (*ProductHandler, error) {
	return &ProductHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type productResponse struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       uint32          `json:"stock"`
	SKU         string          `json:"sku"`
	IsActive    bool            `json:"is_active"`
	CategoryIDs []uint64        `json:"category_ids,omitempty"`
}

func newProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		SKU:         p.SKU,
		IsActive:    p.IsActive,
		CategoryIDs: p.CategoryIDs,
	}
}

func newProductListResponse(list []*domain.Product) []productResponse {
	result := make([]productResponse, 0, len(list))
	for _, p := range list {
		result = append(result, newProductResponse(p))
	}
	return result
}

func parseIDParam(ctx *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, domain.ErrBadRequest
	}
	return id, nil
}

func (ph *ProductHandler) ListProducts(ctx *gin.Context) {
	list, err := ph.service.ListProducts(ctx)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, newProductListResponse(list))
}

func (ph *ProductHandler) GetProduct(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	product, err := ph.service.GetProduct(ctx, id)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, newProductResponse(product))
}

type createProductRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Slug        string   `json:"slug" binding:"max=255"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gte=0"`
	Stock       uint32   `json:"stock"`
	SKU         string   `json:"sku" binding:"required,max=100"`
	IsActive    *bool    `json:"is_active"`
	CategoryIDs []uint64 `json:"category_ids"`
}

func (ph *ProductHandler) CreateProduct(ctx *gin.Context) {
	req := createProductRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	price, err := decimal.NewFromFloat64(req.Price)
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &domain.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       price.Round(2),
		Stock:       req.Stock,
		SKU:         req.SKU,
		IsActive:    isActive,
		UserID:      getAuthPayload(ctx).UserID,
		CategoryIDs: req.CategoryIDs,
	}

	created, err := ph.service.CreateProduct(ctx, product)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccessWithStatus(ctx, newProductResponse(created), http.StatusCreated)
}

type updateProductRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=255"`
	Slug        *string   `json:"slug" binding:"omitempty,max=255"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price" binding:"omitempty,gte=0"`
	Stock       *uint32   `json:"stock"`
	SKU         *string   `json:"sku" binding:"omitempty,max=100"`
	IsActive    *bool     `json:"is_active"`
	CategoryIDs *[]uint64 `json:"category_ids"`
}

func (ph *ProductHandler) UpdateProduct(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	req := updateProductRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	upd := port.ProductUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Stock:       req.Stock,
		SKU:         req.SKU,
		IsActive:    req.IsActive,
		CategoryIDs: req.CategoryIDs,
	}
	if req.Price != nil {
		price, err := decimal.NewFromFloat64(*req.Price)
		if err != nil {
			ph.handleValidationError(ctx, err)
			return
		}
		price = price.Round(2)
		upd.Price = &price
	}

	updated, err := ph.service.UpdateProduct(ctx, id, upd)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, newProductResponse(updated))
}

func (ph *ProductHandler) DeleteProduct(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	if err := ph.service.DeleteProduct(ctx, id); err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}

type filterProductsRequest struct {
	PriceMin *float64 `form:"price_min" binding:"omitempty,gte=0"`
	PriceMax *float64 `form:"price_max" binding:"omitempty,gte=0"`
	Query    string   `form:"q"`
}

func (ph *ProductHandler) FilterProducts(ctx *gin.Context) {
	req := filterProductsRequest{}
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}

	filter := domain.ProductFilter{Query: req.Query}
	if req.PriceMin != nil {
		min, err := decimal.NewFromFloat64(*req.PriceMin)
		if err != nil {
			ph.handleValidationError(ctx, err)
			return
		}
		filter.PriceMin = &min
	}
	if req.PriceMax != nil {
		max, err := decimal.NewFromFloat64(*req.PriceMax)
		if err != nil {
			ph.handleValidationError(ctx, err)
			return
		}
		filter.PriceMax = &max
	}

	list, err := ph.service.FilterProducts(ctx, filter)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, newProductListResponse(list))
}
