package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderStatusTransitions is the single source of truth for the order
// lifecycle. Enforcement and the client-facing AllowedTransitions query
// both read this table.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Pending Payment",
	OrderStatusPaid:       "Payment Confirmed",
	OrderStatusProcessing: "Being Prepared",
	OrderStatusShipped:    "Shipped",
	OrderStatusDelivered:  "Delivered",
	OrderStatusCancelled:  "Cancelled",
}

func OrderStatusValues() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusPaid,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderStatusTransitions[status]; !ok {
		return "", ErrOrderBadStatus
	}
	return status, nil
}

func (s OrderStatus) AllowedTransitions() []OrderStatus {
	return orderStatusTransitions[s]
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range orderStatusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsFinal() bool {
	return len(orderStatusTransitions[s]) == 0
}

func (s OrderStatus) Label() string {
	return orderStatusLabels[s]
}

type Order struct {
	ID            uint64
	UserID        uint64
	Number        string
	Status        OrderStatus
	PaymentStatus PaymentStatus

	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	ShippingCost decimal.Decimal
	Total        decimal.Decimal

	ShippingName    string
	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZipcode string
	ShippingCountry string
	ShippingPhone   string

	PaymentMethod string
	TransactionID *string
	PaidAt        *time.Time
	Notes         string

	Items         []OrderItem
	StatusHistory []*OrderStatusHistory

	CreatedAt time.Time
}

func (o *Order) CanBeCancelled() bool {
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

func (o *Order) CanAcceptPayment() bool {
	return o.PaymentStatus == PaymentStatusPending || o.PaymentStatus == PaymentStatusFailed
}

// OrderItem is a snapshot of the product at purchase time. Immutable once
// written, decoupled from later product changes.
type OrderItem struct {
	ID          uint64
	OrderID     uint64
	ProductID   uint64
	ProductName string
	ProductSKU  string
	Quantity    uint32
	Price       decimal.Decimal
	Subtotal    decimal.Decimal
}

// SystemActor is recorded in audit output for transitions nobody
// initiated by hand (webhook-driven ones).
const SystemActor = "system"

type OrderStatusHistory struct {
	ID         uint64
	OrderID    uint64
	FromStatus *OrderStatus
	ToStatus   OrderStatus
	UserID     *uint64
	Notes      string
	CreatedAt  time.Time
}

func (h *OrderStatusHistory) ActorName() string {
	if h.UserID == nil {
		return SystemActor
	}
	return ""
}

// OrderFilter narrows the admin order listing.
type OrderFilter struct {
	Status   *OrderStatus
	FromDate *time.Time
	ToDate   *time.Time
	Limit    uint64
	Offset   uint64
}
