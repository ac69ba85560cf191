package http

import (
	"net/http"
	"time"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/port"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type OrderHandler struct {
	Handler
	service port.OrderService
}

func NewOrderHandler(service port.OrderService, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type orderItemResponse struct {
	ID          uint64          `json:"id"`
	ProductID   uint64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    uint32          `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderStatusHistoryResponse struct {
	FromStatus *string   `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Actor      string    `json:"actor"`
	UserID     *uint64   `json:"user_id,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type orderResponse struct {
	ID            uint64 `json:"id"`
	Number        string `json:"order_number"`
	Status        string `json:"status"`
	StatusLabel   string `json:"status_label"`
	PaymentStatus string `json:"payment_status"`

	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`

	ShippingName    string `json:"shipping_name"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingState   string `json:"shipping_state"`
	ShippingZipcode string `json:"shipping_zipcode"`
	ShippingCountry string `json:"shipping_country"`
	ShippingPhone   string `json:"shipping_phone"`

	PaymentMethod string     `json:"payment_method"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	Notes         string     `json:"notes,omitempty"`

	Items              []orderItemResponse          `json:"items,omitempty"`
	StatusHistory      []orderStatusHistoryResponse `json:"status_history,omitempty"`
	AllowedTransitions []string                     `json:"allowed_transitions"`

	CreatedAt time.Time `json:"created_at"`
}

func newOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		Number:          o.Number,
		Status:          string(o.Status),
		StatusLabel:     o.Status.Label(),
		PaymentStatus:   string(o.PaymentStatus),
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		ShippingCost:    o.ShippingCost,
		Total:           o.Total,
		ShippingName:    o.ShippingName,
		ShippingAddress: o.ShippingAddress,
		ShippingCity:    o.ShippingCity,
		ShippingState:   o.ShippingState,
		ShippingZipcode: o.ShippingZipcode,
		ShippingCountry: o.ShippingCountry,
		ShippingPhone:   o.ShippingPhone,
		PaymentMethod:   o.PaymentMethod,
		TransactionID:   o.TransactionID,
		PaidAt:          o.PaidAt,
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
	}

	resp.AllowedTransitions = make([]string, 0, len(o.Status.AllowedTransitions()))
	for _, t := range o.Status.AllowedTransitions() {
		resp.AllowedTransitions = append(resp.AllowedTransitions, string(t))
	}

	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Subtotal,
		})
	}

	for _, h := range o.StatusHistory {
		resp.StatusHistory = append(resp.StatusHistory, newOrderStatusHistoryResponse(h))
	}

	return resp
}

func newOrderStatusHistoryResponse(h *domain.OrderStatusHistory) orderStatusHistoryResponse {
	var from *string
	if h.FromStatus != nil {
		s := string(*h.FromStatus)
		from = &s
	}
	return orderStatusHistoryResponse{
		FromStatus: from,
		ToStatus:   string(h.ToStatus),
		Actor:      h.ActorName(),
		UserID:     h.UserID,
		Notes:      h.Notes,
		CreatedAt:  h.CreatedAt,
	}
}

type checkoutRequest struct {
	ShippingName    string `json:"shipping_name" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	ShippingCity    string `json:"shipping_city" binding:"required"`
	ShippingState   string `json:"shipping_state" binding:"required"`
	ShippingZipcode string `json:"shipping_zipcode" binding:"required"`
	ShippingCountry string `json:"shipping_country" binding:"required"`
	ShippingPhone   string `json:"shipping_phone" binding:"required"`
	PaymentMethod   string `json:"payment_method" binding:"required"`
	Notes           string `json:"notes"`
}

func (oh *OrderHandler) Checkout(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	req := checkoutRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.Checkout(ctx, userID, port.CheckoutInput{
		ShippingName:    req.ShippingName,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingState:   req.ShippingState,
		ShippingZipcode: req.ShippingZipcode,
		ShippingCountry: req.ShippingCountry,
		ShippingPhone:   req.ShippingPhone,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccessWithStatus(ctx, newOrderResponse(order), http.StatusCreated)
}

func (oh *OrderHandler) ListMyOrders(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	list, err := oh.service.GetOrdersByUser(ctx, userID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for _, o := range list {
		result = append(result, newOrderResponse(o))
	}

	oh.handleSuccess(ctx, result)
}

func (oh *OrderHandler) GetMyOrder(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	order, err := oh.service.GetUserOrder(ctx, userID, id)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelMyOrder lets a customer cancel their own order while the
// lifecycle still permits it.
func (oh *OrderHandler) CancelMyOrder(ctx *gin.Context) {
	userID := getAuthPayload(ctx).UserID

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

	// Ownership check before mutating anything.
	if _, err := oh.service.GetUserOrder(ctx, userID, id); err != nil {
		oh.handleError(ctx, err)
		return
	}

	order, err := oh.service.CancelOrder(ctx, id, &userID, req.Reason)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}
