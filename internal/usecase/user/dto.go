package user

import (
	"time"

	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/pkg/utils"
)

type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	Role      string  `json:"role" validate:"required,oneof=seller buyer"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Location  *string `json:"location" validate:"omitempty,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Location  *string `json:"location" validate:"omitempty,max=200"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended pending_verification"`
}

type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	Premium   bool       `json:"premium"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Phone     *string    `json:"phone"`
	Location  *string    `json:"location"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

type AuthResponse struct {
	User   *UserResponse    `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

// TokenResponse carries a single-use token for development use only.
// Production deployments deliver it by email and never return it here.
type TokenResponse struct {
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		Status:    string(u.Status),
		Premium:   u.Premium,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Location:  u.Location,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}
