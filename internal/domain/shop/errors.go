package shop

import "errors"

var (
	ErrShopNotFound        = errors.New("shop not found")
	ErrShopAlreadyExists   = errors.New("seller already owns a shop")
	ErrNoActiveOTP         = errors.New("no active OTP found")
	ErrOTPUsed             = errors.New("OTP has already been used")
	ErrOTPExpired          = errors.New("OTP has expired")
	ErrOTPMismatch         = errors.New("invalid OTP code")
	ErrAlreadyFollowing    = errors.New("already following this shop")
	ErrFollowNotFound      = errors.New("follow relationship not found")
	ErrContactNotSet       = errors.New("shop contact field is not set")
	ErrContactVerified     = errors.New("contact is already verified")
	ErrInvalidStatusChange = errors.New("invalid verification status transition")
)
