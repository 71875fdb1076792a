package user

import (
	"time"
)

// User represents a marketplace account: buyer, seller or admin.
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	Premium      bool
	FirstName    *string
	LastName     *string
	Phone        *string
	Location     *string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

type Status string

const (
	StatusActive              Status = "active"
	StatusSuspended           Status = "suspended"
	StatusPendingVerification Status = "pending_verification"
)

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// AuthToken is a single-use, typed, expiring bearer credential independent
// of the session JWT.
type AuthToken struct {
	ID        uint
	UserID    uint
	Token     string
	TokenType TokenType
	ExpiresAt time.Time
	IsUsed    bool
	CreatedAt time.Time
}

type TokenType string

const (
	TokenEmailVerification TokenType = "email_verification"
	TokenPasswordReset     TokenType = "password_reset"
	TokenAPI               TokenType = "api"
)

func (t *AuthToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// BrowsingEvent records a buyer interaction used for recommendations.
// Tracking is best-effort and never fails the primary operation.
type BrowsingEvent struct {
	ID              uint
	UserID          uint
	ProductID       *uint
	CategoryID      *uint
	ShopID          *uint
	InteractionType string
	ViewedAt        time.Time
}
