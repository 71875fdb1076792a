package product

import (
	"time"

	domainProduct "marketplace-backend/internal/domain/product"
)

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Type        string  `json:"type" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Tags        *string `json:"tags" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"min=0"`
	Stock       int     `json:"stock" validate:"min=0"`
	Images      *string `json:"images" validate:"omitempty,max=2000"`
	CategoryID  uint    `json:"category_id" validate:"required"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=2,max=200"`
	Type        *string  `json:"type" validate:"omitempty,min=2,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Tags        *string  `json:"tags" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
	Images      *string  `json:"images" validate:"omitempty,max=2000"`
	CategoryID  *uint    `json:"category_id"`
	IsActive    *bool    `json:"is_active"`
}

type ListProductsRequest struct {
	CategoryID *uint  `form:"category_id"`
	ShopID     *uint  `form:"shop_id"`
	Search     string `form:"search" validate:"omitempty,max=200"`
	InStock    *bool  `form:"in_stock"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type AdminListProductsRequest struct {
	CategoryID *uint  `form:"category_id"`
	ShopID     *uint  `form:"shop_id"`
	Search     string `form:"search" validate:"omitempty,max=200"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description *string   `json:"description"`
	Tags        *string   `json:"tags"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Images      *string   `json:"images"`
	IsActive    bool      `json:"is_active"`
	OutOfStock  bool      `json:"out_of_stock"`
	ShopID      uint      `json:"shop_id"`
	CategoryID  uint      `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductListResponse struct {
	Products []*ProductResponse `json:"products"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

func ToProductResponse(p *domainProduct.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Type:        p.Type,
		Description: p.Description,
		Tags:        p.Tags,
		Price:       p.Price,
		Stock:       p.Stock,
		Images:      p.Images,
		IsActive:    p.IsActive,
		OutOfStock:  p.IsOutOfStock(),
		ShopID:      p.ShopID,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
