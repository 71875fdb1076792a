package inventory

import (
	"time"

	domainProduct "marketplace-backend/internal/domain/product"
)

// UpdateStockRequest carries exactly one of Stock (absolute) or
// StockChange (delta). Supplying both or neither is rejected.
type UpdateStockRequest struct {
	Stock       *int    `json:"stock" validate:"omitempty,min=0"`
	StockChange *int    `json:"stock_change"`
	Reason      *string `json:"reason" validate:"omitempty,max=500"`
}

type BulkStockItem struct {
	ProductID   uint    `json:"product_id" validate:"required"`
	Stock       *int    `json:"stock" validate:"omitempty,min=0"`
	StockChange *int    `json:"stock_change"`
	Reason      *string `json:"reason" validate:"omitempty,max=500"`
}

type BulkUpdateStockRequest struct {
	Updates []BulkStockItem `json:"updates" validate:"required,min=1,dive"`
}

type StockUpdateResponse struct {
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	OldStock    int       `json:"old_stock"`
	NewStock    int       `json:"new_stock"`
	StockChange int       `json:"stock_change"`
	Reason      string    `json:"reason"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BulkStockError struct {
	ProductID uint   `json:"product_id"`
	Error     string `json:"error"`
}

type BulkUpdateStockResponse struct {
	Processed int                   `json:"processed"`
	Failed    int                   `json:"failed"`
	Results   []StockUpdateResponse `json:"results"`
	Errors    []BulkStockError      `json:"errors,omitempty"`
}

type StockHistoryResponse struct {
	ProductID uint                  `json:"product_id"`
	Updates   []StockUpdateResponse `json:"updates"`
}

type LowStockProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

type LowStockResponse struct {
	Threshold int               `json:"threshold"`
	Products  []LowStockProduct `json:"products"`
}

func toStockUpdateResponse(u *domainProduct.StockUpdate, productName string) StockUpdateResponse {
	reason := ""
	if u.Reason != nil {
		reason = *u.Reason
	}
	return StockUpdateResponse{
		ProductID:   u.ProductID,
		ProductName: productName,
		OldStock:    u.OldStock,
		NewStock:    u.NewStock,
		StockChange: u.StockChange,
		Reason:      reason,
		UpdatedAt:   u.UpdatedAt,
	}
}
