package subscription

import (
	"time"
)

// Type tags the polymorphic target of a subscription.
type Type string

const (
	TypeUser    Type = "user"
	TypeProduct Type = "product"
	TypeShop    Type = "shop"
)

func (t Type) Valid() bool {
	return t == TypeUser || t == TypeProduct || t == TypeShop
}

// Subscription is a time-boxed premium entitlement for a user, product or
// shop. At most one row per (type, target) has IsActive=true; superseded
// rows stay in storage with the flag off, forming an implicit history.
type Subscription struct {
	ID        uint
	Type      Type
	TargetID  uint
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	CreatedBy *uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Subscription) IsExpired() bool {
	return time.Now().After(s.EndDate)
}

// IsValid distinguishes a merely active subscription from a usable one:
// the flag must be on and the end date not yet passed.
func (s *Subscription) IsValid() bool {
	return s.IsActive && !s.IsExpired()
}
