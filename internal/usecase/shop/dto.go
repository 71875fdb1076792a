package shop

import (
	"time"

	domainShop "marketplace-backend/internal/domain/shop"
)

type CreateShopRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=150"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	Region      *string `json:"region" validate:"omitempty,max=100"`
	District    *string `json:"district" validate:"omitempty,max=100"`
	Town        *string `json:"town" validate:"omitempty,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Email       *string `json:"email" validate:"omitempty,email"`
}

type UpdateShopRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=150"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	Region      *string `json:"region" validate:"omitempty,max=100"`
	District    *string `json:"district" validate:"omitempty,max=100"`
	Town        *string `json:"town" validate:"omitempty,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,min=7,max=20"`
	Email       *string `json:"email" validate:"omitempty,email"`
	IsActive    *bool   `json:"is_active"`
}

type ShopResponse struct {
	ID                 uint      `json:"id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description"`
	Promoted           bool      `json:"promoted"`
	Address            *string   `json:"address"`
	Region             *string   `json:"region"`
	District           *string   `json:"district"`
	Town               *string   `json:"town"`
	Phone              *string   `json:"phone"`
	Email              *string   `json:"email"`
	IsActive           bool      `json:"is_active"`
	OwnerID            uint      `json:"owner_id"`
	VerificationStatus string    `json:"verification_status"`
	PhoneVerified      bool      `json:"phone_verified"`
	EmailVerified      bool      `json:"email_verified"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ListShopsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending under_review verified rejected suspended"`
	Region   string `form:"region" validate:"omitempty,max=100"`
	Search   string `form:"search" validate:"omitempty,max=200"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type ShopListResponse struct {
	Shops    []*ShopResponse `json:"shops"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type FollowResponse struct {
	ShopID    uint `json:"shop_id"`
	Following bool `json:"following"`
}

type FollowerResponse struct {
	UserID     uint      `json:"user_id"`
	FollowedAt time.Time `json:"followed_at"`
}

type FollowersResponse struct {
	ShopID    uint               `json:"shop_id"`
	Count     int64              `json:"count"`
	Followers []FollowerResponse `json:"followers"`
}

func ToShopResponse(s *domainShop.Shop) *ShopResponse {
	if s == nil {
		return nil
	}
	return &ShopResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Description:        s.Description,
		Promoted:           s.Promoted,
		Address:            s.Address,
		Region:             s.Region,
		District:           s.District,
		Town:               s.Town,
		Phone:              s.Phone,
		Email:              s.Email,
		IsActive:           s.IsActive,
		OwnerID:            s.OwnerID,
		VerificationStatus: string(s.VerificationStatus),
		PhoneVerified:      s.PhoneVerified,
		EmailVerified:      s.EmailVerified,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
