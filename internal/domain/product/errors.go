package product

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrNotOwnedByShop    = errors.New("product does not belong to this shop")
	ErrInvalidStockValue = errors.New("either stock or stock_change is required, not both")
	ErrNegativePrice     = errors.New("price must be non-negative")
)
