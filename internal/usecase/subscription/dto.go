package subscription

import (
	"time"

	domainSubscription "marketplace-backend/internal/domain/subscription"
)

type ToggleSubscriptionRequest struct {
	Type      string `json:"type" validate:"required,oneof=user product shop"`
	TargetID  uint   `json:"target_id" validate:"required"`
	IsPremium *bool  `json:"is_premium" validate:"required"`
	// StartDate and EndDate override the computed window when activating.
	// Days applies when EndDate is absent. All three are ignored on
	// deactivation.
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Days      int        `json:"days" validate:"omitempty,min=1,max=3650"`
}

type SubscriptionResponse struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	TargetID  uint      `json:"target_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
	IsValid   bool      `json:"is_valid"`
	CreatedAt time.Time `json:"created_at"`
}

type ToggleSubscriptionResponse struct {
	Activated    bool                  `json:"activated"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}

type StatusResponse struct {
	Type     string                `json:"type"`
	TargetID uint                  `json:"target_id"`
	IsValid  bool                  `json:"is_valid"`
	Active   *SubscriptionResponse `json:"active,omitempty"`
}

func toSubscriptionResponse(sub *domainSubscription.Subscription) *SubscriptionResponse {
	if sub == nil {
		return nil
	}
	return &SubscriptionResponse{
		ID:        sub.ID,
		Type:      string(sub.Type),
		TargetID:  sub.TargetID,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		IsActive:  sub.IsActive,
		IsValid:   sub.IsValid(),
		CreatedAt: sub.CreatedAt,
	}
}
