package product

import (
	"time"
)

// Product is a listing owned by a shop and attached to a leaf category.
// Stock is mutated only through the inventory ledger, never assigned
// directly.
type Product struct {
	ID          uint
	Name        string
	Type        string
	Description *string
	Tags        *string
	Price       float64
	Stock       int
	Images      *string
	IsActive    bool
	ShopID      uint
	CategoryID  uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const DefaultLowStockThreshold = 10

func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock <= threshold
}

func (p *Product) IsOutOfStock() bool {
	return p.Stock <= 0
}

// StockUpdate is an append-only audit record of one stock mutation.
// Invariant: NewStock = OldStock + StockChange and NewStock >= 0.
type StockUpdate struct {
	ID          uint
	ProductID   uint
	OldStock    int
	NewStock    int
	StockChange int
	UpdatedBy   uint
	Reason      *string
	UpdatedAt   time.Time
}
