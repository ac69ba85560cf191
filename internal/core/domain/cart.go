package domain

import "time"

// CartItem is one line of a user's cart. A (user, product) pair is unique,
// re-adding the same product increments quantity.
type CartItem struct {
	ID        uint64
	UserID    uint64
	ProductID uint64
	Quantity  uint32
	Product   *Product
	CreatedAt time.Time
}
