package http

import (
	"net/http"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type CartHandler struct {
	Handler
	service port.CartService
}

func NewCartHandler(service port.CartService, logger *zap.Logger) (*CartHandler, error) {
	return &CartHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type cartItemResponse struct {
	ID        uint64           `json:"id"`
	ProductID uint64           `json:"product_id"`
	Quantity  uint32           `json:"quantity"`
	Product   *productResponse `json:"product,omitempty"`
}

func newCartItemResponse(item *domain.CartItem) cartItemResponse {
	resp := cartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		product := newProductResponse(item.Product)
		resp.Product = &product
	}
	return resp
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

func (ch *CartHandler) GetCart(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	items, total, err := ch.service.GetCart(ctx, userID)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	resp := cartResponse{Items: make([]cartItemResponse, 0, len(items)), Total: total}
	for _, item := range items {
		resp.Items = append(resp.Items, newCartItemResponse(item))
	}

	ch.handleSuccess(ctx, resp)
}

type addToCartRequest struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	Quantity  uint32 `json:"quantity" binding:"required,min=1"`
}

func (ch *CartHandler) AddToCart(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	req := addToCartRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	item, created, err := ch.service.AddToCart(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ch.handleSuccessWithStatus(ctx, newCartItemResponse(item), status)
}

type updateCartItemRequest struct {
	Quantity uint32 `json:"quantity" binding:"required,min=1"`
}

func (ch *CartHandler) UpdateCartItem(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	req := updateCartItemRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	item, err := ch.service.UpdateCartItem(ctx, userID, id, req.Quantity)
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, newCartItemResponse(item))
}

func (ch *CartHandler) RemoveCartItem(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	if err := ch.service.RemoveCartItem(ctx, userID, id); err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}

func (ch *CartHandler) ClearCart(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	if err := ch.service.ClearCart(ctx, userID); err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
