package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainProduct "marketplace-backend/internal/domain/product"
	"marketplace-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// ProductRepository implements domainProduct.Repository
type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) domainProduct.Repository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domainProduct.Product) error {
	dbModel := toProductModel(p)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	p.ID = dbModel.ID
	p.CreatedAt = dbModel.CreatedAt
	p.UpdatedAt = dbModel.UpdatedAt
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, productID uint) (*domainProduct.Product, error) {
	var dbModel models.ProductModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", productID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainProduct.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return toProductEntity(&dbModel), nil
}

func (r *ProductRepository) GetByIDForShop(ctx context.Context, productID, shopID uint) (*domainProduct.Product, error) {
	var dbModel models.ProductModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND shop_id = ?", productID, shopID).
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainProduct.ErrNotOwnedByShop
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product for shop: %w", err)
	}
	return toProductEntity(&dbModel), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domainProduct.Product) error {
	p.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"type":        p.Type,
			"description": p.Description,
			"tags":        p.Tags,
			"price":       p.Price,
			"images":      p.Images,
			"is_active":   p.IsActive,
			"category_id": p.CategoryID,
			"updated_at":  p.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainProduct.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, productID uint) error {
	result := r.db.DB.WithContext(ctx).Where("id = ?", productID).Delete(&models.ProductModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainProduct.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, filter *domainProduct.Filter) ([]*domainProduct.Product, int64, error) {
	var dbModels []models.ProductModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.ProductModel{})

	if filter.ShopID != nil {
		db = db.Where("shop_id = ?", *filter.ShopID)
	}
	if len(filter.CategoryIDs) > 0 {
		db = db.Where("category_id IN ?", filter.CategoryIDs)
	}
	if filter.InStock != nil && *filter.InStock {
		db = db.Where("stock > 0")
	}
	if filter.OutOfStock != nil && *filter.OutOfStock {
		db = db.Where("stock <= 0")
	}
	if filter.LowStock != nil && *filter.LowStock {
		threshold := filter.LowStockThreshold
		if threshold <= 0 {
			threshold = domainProduct.DefaultLowStockThreshold
		}
		db = db.Where("stock <= ?", threshold)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("name ILIKE ? OR tags ILIKE ?", search, search)
	}
	if filter.ActiveOnly {
		db = db.Where("is_active = true")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		db = db.Limit(filter.PageSize).Offset(offset)
	}

	if err := db.Order("created_at DESC").Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*domainProduct.Product, len(dbModels))
	for i := range dbModels {
		products[i] = toProductEntity(&dbModels[i])
	}
	return products, total, nil
}

// ApplyStockUpdates writes the new stock values and their audit rows in
// one transaction: either the whole batch persists or none of it does.
func (r *ProductRepository) ApplyStockUpdates(ctx context.Context, updates []*domainProduct.StockUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(&models.ProductModel{}).
				Where("id = ?", u.ProductID).
				Updates(map[string]interface{}{
					"stock":      u.NewStock,
					"updated_at": u.UpdatedAt,
				})
			if result.Error != nil {
				return fmt.Errorf("failed to update stock: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return domainProduct.ErrProductNotFound
			}

			audit := &models.StockUpdateModel{
				ProductID:   u.ProductID,
				OldStock:    u.OldStock,
				NewStock:    u.NewStock,
				StockChange: u.StockChange,
				UpdatedBy:   u.UpdatedBy,
				Reason:      u.Reason,
				UpdatedAt:   u.UpdatedAt,
			}
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to create stock audit row: %w", err)
			}
			u.ID = audit.ID
		}
		return nil
	})
}

func (r *ProductRepository) ListStockUpdates(ctx context.Context, productID uint, limit int) ([]*domainProduct.StockUpdate, error) {
	if limit <= 0 {
		limit = 50
	}

	var dbModels []models.StockUpdateModel
	err := r.db.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stock updates: %w", err)
	}

	updates := make([]*domainProduct.StockUpdate, len(dbModels))
	for i, m := range dbModels {
		updates[i] = &domainProduct.StockUpdate{
			ID:          m.ID,
			ProductID:   m.ProductID,
			OldStock:    m.OldStock,
			NewStock:    m.NewStock,
			StockChange: m.StockChange,
			UpdatedBy:   m.UpdatedBy,
			Reason:      m.Reason,
			UpdatedAt:   m.UpdatedAt,
		}
	}
	return updates, nil
}

// Helper functions to convert between domain entities and database models

func toProductModel(p *domainProduct.Product) *models.ProductModel {
	return &models.ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Type:        p.Type,
		Description: p.Description,
		Tags:        p.Tags,
		Price:       p.Price,
		Stock:       p.Stock,
		Images:      p.Images,
		IsActive:    p.IsActive,
		ShopID:      p.ShopID,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductEntity(m *models.ProductModel) *domainProduct.Product {
	return &domainProduct.Product{
		ID:          m.ID,
		Name:        m.Name,
		Type:        m.Type,
		Description: m.Description,
		Tags:        m.Tags,
		Price:       m.Price,
		Stock:       m.Stock,
		Images:      m.Images,
		IsActive:    m.IsActive,
		ShopID:      m.ShopID,
		CategoryID:  m.CategoryID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
