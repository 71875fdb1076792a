package verification

import (
	"time"

	domainShop "marketplace-backend/internal/domain/shop"
)

type RequestOTPRequest struct {
	Type domainShop.OTPType `json:"type" validate:"required,oneof=phone email"`
}

type VerifyOTPRequest struct {
	Type domainShop.OTPType `json:"type" validate:"required,oneof=phone email"`
	Code string             `json:"otp" validate:"required,len=6,numeric"`
}

// OTPResponse carries the plaintext code for development use only.
// Production deployments deliver the code out of band and never return it
// in the API response.
type OTPResponse struct {
	OTP              string `json:"otp,omitempty"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
	Contact          string `json:"contact"`
}

type VerifyOTPResponse struct {
	Verified bool               `json:"verified"`
	Type     domainShop.OTPType `json:"type"`
}

type RejectShopRequest struct {
	Reason string `json:"rejection_reason" validate:"required"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

type BulkVerifyRequest struct {
	Action          string `json:"action" validate:"required,oneof=verify reject under_review"`
	ShopIDs         []uint `json:"shop_ids" validate:"required,min=1"`
	RejectionReason string `json:"rejection_reason" validate:"omitempty,max=2000"`
}

type BulkResult struct {
	ShopID uint   `json:"shop_id"`
	Action string `json:"action"`
}

type BulkError struct {
	ShopID uint   `json:"shop_id"`
	Error  string `json:"error"`
}

type BulkVerifyResponse struct {
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Results   []BulkResult `json:"results"`
	Errors    []BulkError  `json:"errors,omitempty"`
}

type ShopVerificationResponse struct {
	ShopID                  uint                          `json:"shop_id"`
	ShopName                string                        `json:"shop_name"`
	VerificationStatus      domainShop.VerificationStatus `json:"verification_status"`
	PhoneVerified           bool                          `json:"phone_verified"`
	EmailVerified           bool                          `json:"email_verified"`
	CanRequestVerification  bool                          `json:"can_request_verification"`
	VerificationRequestedAt *time.Time                    `json:"verification_requested_at"`
	VerifiedAt              *time.Time                    `json:"verified_at"`
	VerifiedBy              *uint                         `json:"verified_by"`
	RejectionReason         *string                       `json:"rejection_reason"`
	VerificationNotes       *string                       `json:"verification_notes,omitempty"`
}

func ToVerificationResponse(s *domainShop.Shop) *ShopVerificationResponse {
	if s == nil {
		return nil
	}
	return &ShopVerificationResponse{
		ShopID:                  s.ID,
		ShopName:                s.Name,
		VerificationStatus:      s.VerificationStatus,
		PhoneVerified:           s.PhoneVerified,
		EmailVerified:           s.EmailVerified,
		CanRequestVerification:  s.CanRequestVerification(),
		VerificationRequestedAt: s.VerificationRequestedAt,
		VerifiedAt:              s.VerifiedAt,
		VerifiedBy:              s.VerifiedBy,
		RejectionReason:         s.RejectionReason,
		VerificationNotes:       s.VerificationNotes,
	}
}
