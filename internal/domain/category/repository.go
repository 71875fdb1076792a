package category

import (
	"context"
)

// Repository defines the interface for category persistence operations
type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, categoryID uint) (*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, categoryID uint) error
	Deactivate(ctx context.Context, categoryID uint) error
	ListTrunks(ctx context.Context, activeOnly bool) ([]*Category, error)
	ListByParent(ctx context.Context, parentID uint) ([]*Category, error)
	HasChildren(ctx context.Context, categoryID uint) (bool, error)
	CountProducts(ctx context.Context, categoryID uint) (int64, error)
	ExistsByName(ctx context.Context, name string, parentID *uint, level Level) (bool, error)
}
