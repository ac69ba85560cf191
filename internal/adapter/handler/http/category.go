package http

import (
	"net/http"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	Handler
	service port.CatalogService
}

func NewCategoryHandler(service port.CatalogService, logger *zap.Logger) (*CategoryHandler, error) {
	return &CategoryHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type categoryResponse struct {
	ID          uint64             `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description,omitempty"`
	IsActive    bool               `json:"is_active"`
	ParentID    *uint64            `json:"parent_id,omitempty"`
	Parent      *categoryResponse  `json:"parent,omitempty"`
	Children    []categoryResponse `json:"children,omitempty"`
}

func newCategoryResponse(c *domain.Category) categoryResponse {
	resp := categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		ParentID:    c.ParentID,
	}
	if c.Parent != nil {
		parent := newCategoryResponse(c.Parent)
		resp.Parent = &parent
	}
	for _, child := range c.Children {
		resp.Children = append(resp.Children, newCategoryResponse(child))
	}
	return resp
}

func (ch *CategoryHandler) ListCategories(ctx *gin.Context) {
	list, err := ch.service.ListCategories(ctx)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	result := make([]categoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, newCategoryResponse(c))
	}

	ch.handleSuccess(ctx, result)
}

func (ch *CategoryHandler) GetCategory(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	category, err := ch.service.GetCategory(ctx, id)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCategoryResponse(category))
}

type createCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Slug        string  `json:"slug" binding:"max=255"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"is_active"`
	ParentID    *uint64 `json:"parent_id"`
}

func (ch *CategoryHandler) CreateCategory(ctx *gin.Context) {
	req := createCategoryRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	category := &domain.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    isActive,
		ParentID:    req.ParentID,
	}

	created, err := ch.service.CreateCategory(ctx, category)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, newCategoryResponse(created), http.StatusCreated)
}

type updateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Slug        *string `json:"slug" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	ParentID    *uint64 `json:"parent_id"`
}

func (ch *CategoryHandler) UpdateCategory(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	req := updateCategoryRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	updated, err := ch.service.UpdateCategory(ctx, id, port.CategoryUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    req.IsActive,
		ParentID:    req.ParentID,
	})
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCategoryResponse(updated))
}

func (ch *CategoryHandler) DeleteCategory(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	if err := ch.service.DeleteCategory(ctx, id); err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}

func (ch *CategoryHandler) CategoryProducts(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	list, err := ch.service.GetCategoryProducts(ctx, id)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newProductListResponse(list))
}
