package models

import (
	"time"
)

// SubscriptionModel is the premium entitlement ledger. At most one row
// per (type, target_id) pair has is_active=true, enforced by a partial
// unique index:
//
//	CREATE UNIQUE INDEX idx_subscriptions_one_active
//	ON subscriptions (type, target_id) WHERE is_active;
type SubscriptionModel struct {
	ID        uint      `gorm:"primaryKey"`
	Type      string    `gorm:"type:varchar(20);not null;index:idx_subscriptions_target"`
	TargetID  uint      `gorm:"not null;index:idx_subscriptions_target"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedBy *uint

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
