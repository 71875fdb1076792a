package product

import (
	"context"
)

// Filter represents filtering options for listing products
type Filter struct {
	ShopID            *uint
	CategoryIDs       []uint
	InStock           *bool
	OutOfStock        *bool
	LowStock          *bool
	LowStockThreshold int
	Search            string
	ActiveOnly        bool
	Page              int
	PageSize          int
}

// Repository defines the interface for product persistence operations
type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, productID uint) (*Product, error)
	// GetByIDForShop resolves a product only if it belongs to the given
	// shop, backing the ownership guard on every stock mutation.
	GetByIDForShop(ctx context.Context, productID, shopID uint) (*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, productID uint) error
	List(ctx context.Context, filter *Filter) ([]*Product, int64, error)

	// ApplyStockUpdates writes the product stock values and their audit
	// rows in a single transaction: either every update in the batch
	// persists or none does. Callers validate items beforehand; only
	// items that passed validation are handed to this method.
	ApplyStockUpdates(ctx context.Context, updates []*StockUpdate) error
	ListStockUpdates(ctx context.Context, productID uint, limit int) ([]*StockUpdate, error)
}
