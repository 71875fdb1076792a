package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainCategory "marketplace-backend/internal/domain/category"
	"marketplace-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// CategoryRepository implements domainCategory.Repository
type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) domainCategory.Repository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domainCategory.Category) error {
	dbModel := toCategoryModel(c)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	c.ID = dbModel.ID
	c.CreatedAt = dbModel.CreatedAt
	c.UpdatedAt = dbModel.UpdatedAt
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, categoryID uint) (*domainCategory.Category, error) {
	var dbModel models.CategoryModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", categoryID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainCategory.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return toCategoryEntity(&dbModel), nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domainCategory.Category) error {
	c.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"name":        c.Name,
			"level":       int(c.Level),
			"parent_id":   c.ParentID,
			"description": c.Description,
			"is_active":   c.IsActive,
			"updated_at":  c.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainCategory.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID uint) error {
	result := r.db.DB.WithContext(ctx).Where("id = ?", categoryID).Delete(&models.CategoryModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainCategory.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Deactivate(ctx context.Context, categoryID uint) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("id = ?", categoryID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainCategory.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) ListTrunks(ctx context.Context, activeOnly bool) ([]*domainCategory.Category, error) {
	db := r.db.DB.WithContext(ctx).
		Where("level = ?", int(domainCategory.LevelTrunk))
	if activeOnly {
		db = db.Where("is_active = true")
	}

	var dbModels []models.CategoryModel
	if err := db.Order("name ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list trunks: %w", err)
	}
	return toCategoryEntities(dbModels), nil
}

func (r *CategoryRepository) ListByParent(ctx context.Context, parentID uint) ([]*domainCategory.Category, error) {
	var dbModels []models.CategoryModel
	err := r.db.DB.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("name ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	return toCategoryEntities(dbModels), nil
}

func (r *CategoryRepository) HasChildren(ctx context.Context, categoryID uint) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("parent_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count children: %w", err)
	}
	return count > 0, nil
}

func (r *CategoryRepository) CountProducts(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string, parentID *uint, level domainCategory.Level) (bool, error) {
	db := r.db.DB.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("name = ? AND level = ?", name, int(level))
	if parentID == nil {
		db = db.Where("parent_id IS NULL")
	} else {
		db = db.Where("parent_id = ?", *parentID)
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}

// Helper functions to convert between domain entities and database models

func toCategoryModel(c *domainCategory.Category) *models.CategoryModel {
	return &models.CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Level:       int(c.Level),
		ParentID:    c.ParentID,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryEntity(m *models.CategoryModel) *domainCategory.Category {
	return &domainCategory.Category{
		ID:          m.ID,
		Name:        m.Name,
		Level:       domainCategory.Level(m.Level),
		ParentID:    m.ParentID,
		Description: m.Description,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toCategoryEntities(dbModels []models.CategoryModel) []*domainCategory.Category {
	categories := make([]*domainCategory.Category, len(dbModels))
	for i := range dbModels {
		categories[i] = toCategoryEntity(&dbModels[i])
	}
	return categories
}
