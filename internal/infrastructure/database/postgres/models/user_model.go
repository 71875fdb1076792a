package models

import (
	"time"
)

// UserModel represents the database model for marketplace accounts.
type UserModel struct {
	ID           uint       `gorm:"primaryKey"`
	Username     string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	Role         string     `gorm:"type:varchar(20);not null;index"`
	Status       string     `gorm:"type:varchar(30);not null;default:'active'"`
	Premium      bool       `gorm:"not null;default:false"`
	FirstName    *string    `gorm:"type:varchar(100)"`
	LastName     *string    `gorm:"type:varchar(100)"`
	Phone        *string    `gorm:"type:varchar(20)"`
	Location     *string    `gorm:"type:varchar(200)"`
	LastLogin    *time.Time `gorm:"type:timestamp"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// AuthTokenModel represents single-use typed tokens.
type AuthTokenModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	TokenType string    `gorm:"type:varchar(30);not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	IsUsed    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`

	User *UserModel `gorm:"foreignKey:UserID"`
}

func (AuthTokenModel) TableName() string {
	return "auth_tokens"
}

// BrowsingEventModel records buyer interactions for recommendations.
type BrowsingEventModel struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;index:idx_browsing_user_time"`
	ProductID       *uint     `gorm:"index"`
	CategoryID      *uint     `gorm:"index"`
	ShopID          *uint     `gorm:"index"`
	InteractionType string    `gorm:"type:varchar(30);not null"`
	ViewedAt        time.Time `gorm:"not null;index:idx_browsing_user_time"`
}

func (BrowsingEventModel) TableName() string {
	return "browsing_history"
}
