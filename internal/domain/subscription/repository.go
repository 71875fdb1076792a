package subscription

import (
	"context"
)

// Repository defines the interface for subscription persistence operations
type Repository interface {
	// CreateActive deactivates any existing active row for the same
	// (type, target) pair and inserts the new active row in one
	// transaction.
	CreateActive(ctx context.Context, sub *Subscription) error
	GetActive(ctx context.Context, subType Type, targetID uint) (*Subscription, error)
	DeactivateActive(ctx context.Context, subType Type, targetID uint) (bool, error)
	ListForTarget(ctx context.Context, subType Type, targetID uint) ([]*Subscription, error)
}
