package models

import (
	"time"
)

// ShopModel represents the database model for seller storefronts.
type ShopModel struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(150);not null"`
	Description *string `gorm:"type:text"`
	Promoted    bool    `gorm:"not null;default:false"`
	Address     *string `gorm:"type:varchar(300)"`
	Region      *string `gorm:"type:varchar(100)"`
	District    *string `gorm:"type:varchar(100)"`
	Town        *string `gorm:"type:varchar(100)"`
	Phone       *string `gorm:"type:varchar(20)"`
	Email       *string `gorm:"type:varchar(255)"`
	IsActive    bool    `gorm:"not null;default:true"`
	OwnerID     uint    `gorm:"not null;uniqueIndex"`

	VerificationStatus      string     `gorm:"type:varchar(30);not null;default:'pending';index"`
	PhoneVerified           bool       `gorm:"not null;default:false"`
	EmailVerified           bool       `gorm:"not null;default:false"`
	VerificationRequestedAt *time.Time `gorm:"type:timestamp"`
	VerifiedAt              *time.Time `gorm:"type:timestamp"`
	VerifiedBy              *uint
	RejectionReason         *string `gorm:"type:text"`
	VerificationNotes       *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Owner *UserModel `gorm:"foreignKey:OwnerID"`
}

func (ShopModel) TableName() string {
	return "shops"
}

// VerificationOTPModel stores contact-verification one-time codes. Only
// the bcrypt hash of the code is persisted.
type VerificationOTPModel struct {
	ID           uint       `gorm:"primaryKey"`
	ShopID       uint       `gorm:"not null;index:idx_otp_shop_type"`
	OTPHash      string     `gorm:"type:varchar(255);not null"`
	OTPType      string     `gorm:"type:varchar(10);not null;index:idx_otp_shop_type"`
	ContactValue string     `gorm:"type:varchar(255);not null"`
	ExpiresAt    time.Time  `gorm:"not null"`
	VerifiedAt   *time.Time `gorm:"type:timestamp"`
	IsUsed       bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time  `gorm:"not null"`

	Shop *ShopModel `gorm:"foreignKey:ShopID"`
}

func (VerificationOTPModel) TableName() string {
	return "shop_verification_otps"
}

// ShopFollowModel links users to the shops they follow.
type ShopFollowModel struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_follow_user_shop"`
	ShopID     uint      `gorm:"not null;uniqueIndex:idx_follow_user_shop;index"`
	FollowedAt time.Time `gorm:"not null"`
}

func (ShopFollowModel) TableName() string {
	return "shop_follows"
}
