package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserInactive      = errors.New("user account is inactive")
	ErrInvalidRole       = errors.New("invalid user role")
	ErrTokenNotFound     = errors.New("auth token not found")
	ErrTokenExpired      = errors.New("auth token has expired")
	ErrTokenUsed         = errors.New("auth token has already been used")
)
