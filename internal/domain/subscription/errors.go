package subscription

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrInvalidType          = errors.New("subscription type must be user, product or shop")
	ErrTargetNotFound       = errors.New("subscription target not found")
)
