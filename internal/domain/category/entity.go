package category

import (
	"time"
)

// Level is the category's fixed position in the three-level hierarchy.
// Only leaf categories may own products.
type Level int

const (
	LevelTrunk  Level = 0
	LevelBranch Level = 1
	LevelLeaf   Level = 2
)

func (l Level) Valid() bool {
	return l == LevelTrunk || l == LevelBranch || l == LevelLeaf
}

func (l Level) String() string {
	switch l {
	case LevelTrunk:
		return "trunk"
	case LevelBranch:
		return "branch"
	case LevelLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// RequiredParentLevel returns the level a parent must have for a child of
// level l. Trunks have no parent.
func (l Level) RequiredParentLevel() (Level, bool) {
	switch l {
	case LevelBranch:
		return LevelTrunk, true
	case LevelLeaf:
		return LevelBranch, true
	default:
		return 0, false
	}
}

// Category is a node in the trunk/branch/leaf taxonomy. Name uniqueness is
// scoped to (name, parent, level), not global.
type Category struct {
	ID          uint
	Name        string
	Level       Level
	ParentID    *uint
	Description *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) IsLeaf() bool {
	return c.Level == LevelLeaf
}
