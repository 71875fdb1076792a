package models

import (
	"time"
)

// CategoryModel represents the three-level category tree. Level 0 is a
// trunk, 1 a branch, 2 a leaf.
type CategoryModel struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_name_parent_level"`
	Level       int     `gorm:"not null;uniqueIndex:idx_category_name_parent_level;index"`
	ParentID    *uint   `gorm:"uniqueIndex:idx_category_name_parent_level;index"`
	Description *string `gorm:"type:text"`
	IsActive    bool    `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Parent *CategoryModel `gorm:"foreignKey:ParentID"`
}

func (CategoryModel) TableName() string {
	return "categories"
}
