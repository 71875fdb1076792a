package shop

import (
	"time"
)

// Shop represents a seller's storefront. Each seller owns at most one shop.
type Shop struct {
	ID          uint
	Name        string
	Description *string
	Promoted    bool
	Address     *string
	Region      *string
	District    *string
	Town        *string
	Phone       *string
	Email       *string
	IsActive    bool
	OwnerID     uint

	// Verification state, admin-moderated and independent of the
	// phone/email contact proofs.
	VerificationStatus      VerificationStatus
	PhoneVerified           bool
	EmailVerified           bool
	VerificationRequestedAt *time.Time
	VerifiedAt              *time.Time
	VerifiedBy              *uint
	RejectionReason         *string
	VerificationNotes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VerificationStatus is the shop's admin-moderated trust state.
type VerificationStatus string

const (
	StatusPending     VerificationStatus = "pending"
	StatusUnderReview VerificationStatus = "under_review"
	StatusVerified    VerificationStatus = "verified"
	StatusRejected    VerificationStatus = "rejected"
	StatusSuspended   VerificationStatus = "suspended"
)

func (s *Shop) IsVerified() bool {
	return s.VerificationStatus == StatusVerified
}

// CanRequestVerification reports whether a verification request would be
// accepted: both contact channels proven and no review already granted or
// in flight. Rejected and suspended shops may re-request.
func (s *Shop) CanRequestVerification() bool {
	return s.PhoneVerified && s.EmailVerified &&
		s.VerificationStatus != StatusVerified &&
		s.VerificationStatus != StatusUnderReview
}

// OTPType identifies the contact channel an OTP proves.
type OTPType string

const (
	OTPPhone OTPType = "phone"
	OTPEmail OTPType = "email"
)

// VerificationOTP is a short-lived, single-use code proving control of a
// shop contact channel. At most one unused, unexpired OTP exists per
// (shop, type) pair.
type VerificationOTP struct {
	ID           uint
	ShopID       uint
	OTPHash      string
	OTPType      OTPType
	ContactValue string
	ExpiresAt    time.Time
	VerifiedAt   *time.Time
	IsUsed       bool
	CreatedAt    time.Time
}

func (o *VerificationOTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// ShopFollow links a user to a shop they follow. A user follows a shop at
// most once.
type ShopFollow struct {
	ID         uint
	UserID     uint
	ShopID     uint
	FollowedAt time.Time
}
