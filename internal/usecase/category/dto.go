package category

import (
	"time"

	domainCategory "marketplace-backend/internal/domain/category"
)

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Level       int     `json:"level" validate:"min=0,max=2"`
	ParentID    *uint   `json:"parent_id"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Level       *int    `json:"level" validate:"omitempty,min=0,max=2"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

type BulkUpdateRequest struct {
	Operation   string `json:"operation" validate:"required,oneof=activate deactivate move delete"`
	CategoryIDs []uint `json:"category_ids" validate:"required,min=1"`
	NewParentID *uint  `json:"new_parent_id"`
}

type BulkResult struct {
	CategoryID  uint   `json:"category_id"`
	Action      string `json:"action"`
	NewParentID *uint  `json:"new_parent_id,omitempty"`
}

type BulkError struct {
	CategoryID uint   `json:"category_id"`
	Error      string `json:"error"`
}

type BulkUpdateResponse struct {
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Results   []BulkResult `json:"results"`
	Errors    []BulkError  `json:"errors,omitempty"`
}

type CategoryResponse struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Level       int                `json:"level"`
	LevelName   string             `json:"level_name"`
	ParentID    *uint              `json:"parent_id"`
	Description *string            `json:"description"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Children    []CategoryResponse `json:"children,omitempty"`
}

type DeleteCategoryResponse struct {
	CategoryID uint `json:"category_id"`
	// Deactivated is true when the category still owned products and was
	// soft-deactivated instead of removed.
	Deactivated bool `json:"deactivated"`
}

func ToCategoryResponse(c *domainCategory.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Level:       int(c.Level),
		LevelName:   c.Level.String(),
		ParentID:    c.ParentID,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
