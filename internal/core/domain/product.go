package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type Product struct {
	ID          uint64
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       uint32
	SKU         string
	IsActive    bool
	UserID      uint64
	CategoryIDs []uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

// ProductFilter narrows admin and public product listings.
type ProductFilter struct {
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Query    string
}
