package category

import "errors"

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrParentNotFound     = errors.New("parent category not found")
	ErrDuplicateName      = errors.New("category with this name already exists at this position")
	ErrInvalidLevel       = errors.New("invalid category level")
	ErrInvalidParentLevel = errors.New("invalid parent category level")
	ErrHasChildren        = errors.New("category has subcategories")
	ErrHasProducts        = errors.New("category has products")
	ErrTrunkImmovable     = errors.New("trunk categories cannot be moved")
	ErrNotLeaf            = errors.New("category is not a leaf")
)
