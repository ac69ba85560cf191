package http

import (
	"strconv"
	"time"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderAdminHandler serves the order management endpoints used by staff.
type OrderAdminHandler struct {
	Handler
	service port.OrderService
}

func NewOrderAdminHandler(service port.OrderService, logger *zap.Logger) (*OrderAdminHandler, error) {
	return &OrderAdminHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

type orderListResponse struct {
	Orders            []orderResponse `json:"orders"`
	AvailableStatuses []string        `json:"available_statuses"`
}

func availableStatuses() []string {
	values := domain.OrderStatusValues()
	result := make([]string, 0, len(values))
	for _, s := range values {
		result = append(result, string(s))
	}
	return result
}

func parseOrderFilter(ctx *gin.Context) (domain.OrderFilter, error) {
	filter := domain.OrderFilter{Limit: defaultOrderPageSize}

	if raw := ctx.Query("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if raw := ctx.Query("from_date"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return filter, domain.ErrBadRequest
		}
		filter.FromDate = &t
	}

	if raw := ctx.Query("to_date"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return filter, domain.ErrBadRequest
		}
		// Inclusive upper bound for the whole day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.ToDate = &t
	}

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			return filter, domain.ErrBadRequest
		}
		if n > maxOrderPageSize {
			n = maxOrderPageSize
		}
		filter.Limit = n
	}

	if raw := ctx.Query("offset"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, domain.ErrBadRequest
		}
		filter.Offset = n
	}

	return filter, nil
}

func (oh *OrderAdminHandler) ListOrders(ctx *gin.Context) {
	filter, err := parseOrderFilter(ctx)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	list, err := oh.service.ListOrders(ctx, filter)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	resp := orderListResponse{
		Orders:            make([]orderResponse, 0, len(list)),
		AvailableStatuses: availableStatuses(),
	}
	for _, o := range list {
		resp.Orders = append(resp.Orders, newOrderResponse(o))
	}

	oh.handleSuccess(ctx, resp)
}

func (oh *OrderAdminHandler) GetOrder(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.GetOrder(ctx, id)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (oh *OrderAdminHandler) UpdateOrderStatus(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	req := updateOrderStatusRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	to, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	actorID := getAuthPayload(ctx).UserID
	order, err := oh.service.TransitionOrder(ctx, id, to, &actorID, req.Notes)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderAdminHandler) CancelOrder(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	req := cancelOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		oh.handleValidationError(ctx, err)
		return
	}

	actorID := getAuthPayload(ctx).UserID
	order, err := oh.service.CancelOrder(ctx, id, &actorID, req.Reason)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}
