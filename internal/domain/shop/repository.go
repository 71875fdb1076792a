package shop

import (
	"context"
)

// Filter represents filtering options for listing shops
type Filter struct {
	Status   *VerificationStatus
	IsActive *bool
	Region   string
	Search   string
	Page     int
	PageSize int
}

// Repository defines the interface for shop persistence operations
type Repository interface {
	Create(ctx context.Context, shop *Shop) error
	GetByID(ctx context.Context, shopID uint) (*Shop, error)
	GetByOwnerID(ctx context.Context, ownerID uint) (*Shop, error)
	Update(ctx context.Context, shop *Shop) error
	UpdateVerification(ctx context.Context, shop *Shop) error
	SetContactVerified(ctx context.Context, shopID uint, otpType OTPType) error
	SetPromoted(ctx context.Context, shopID uint, promoted bool) error
	ListByVerificationStatus(ctx context.Context, status VerificationStatus) ([]*Shop, error)
	List(ctx context.Context, filter *Filter) ([]*Shop, int64, error)
	Deactivate(ctx context.Context, shopID uint) error
	Delete(ctx context.Context, shopID uint) error
}

// OTPRepository manages contact-verification one-time codes.
type OTPRepository interface {
	// CreateSuperseding stores a new OTP and marks any prior unused OTP
	// for the same (shop, type) pair as used, atomically.
	CreateSuperseding(ctx context.Context, otp *VerificationOTP) error
	// GetActive returns the most recent unused, unexpired OTP for the
	// (shop, type) pair, or ErrNoActiveOTP.
	GetActive(ctx context.Context, shopID uint, otpType OTPType) (*VerificationOTP, error)
	MarkUsed(ctx context.Context, otpID uint) error
}

// FollowRepository manages user-follows-shop relationships.
type FollowRepository interface {
	Create(ctx context.Context, follow *ShopFollow) error
	Delete(ctx context.Context, userID, shopID uint) error
	ListByShop(ctx context.Context, shopID uint) ([]*ShopFollow, error)
	CountByShop(ctx context.Context, shopID uint) (int64, error)
}
