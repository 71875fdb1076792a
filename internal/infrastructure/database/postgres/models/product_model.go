package models

import (
	"time"
)

// ProductModel represents the database model for shop listings.
type ProductModel struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(200);not null;index"`
	Type        string  `gorm:"type:varchar(100);not null"`
	Description *string `gorm:"type:text"`
	Tags        *string `gorm:"type:varchar(500)"`
	Price       float64 `gorm:"type:numeric(12,2);not null;default:0"`
	Stock       int     `gorm:"not null;default:0"`
	Images      *string `gorm:"type:text"`
	IsActive    bool    `gorm:"not null;default:true"`
	ShopID      uint    `gorm:"not null;index"`
	CategoryID  uint    `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Shop     *ShopModel     `gorm:"foreignKey:ShopID"`
	Category *CategoryModel `gorm:"foreignKey:CategoryID"`
}

func (ProductModel) TableName() string {
	return "products"
}

// StockUpdateModel is the append-only audit trail of stock mutations.
// Rows are only ever inserted, never updated or deleted.
type StockUpdateModel struct {
	ID          uint    `gorm:"primaryKey"`
	ProductID   uint    `gorm:"not null;index:idx_stock_updates_product_time"`
	OldStock    int     `gorm:"not null"`
	NewStock    int     `gorm:"not null"`
	StockChange int     `gorm:"not null"`
	UpdatedBy   uint    `gorm:"not null"`
	Reason      *string `gorm:"type:varchar(500)"`

	UpdatedAt time.Time `gorm:"not null;index:idx_stock_updates_product_time"`

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

func (StockUpdateModel) TableName() string {
	return "stock_updates"
}
