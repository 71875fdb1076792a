package subscription

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainProduct "marketplace-backend/internal/domain/product"
	domainShop "marketplace-backend/internal/domain/shop"
	domainSubscription "marketplace-backend/internal/domain/subscription"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/logger"
	appErrors "marketplace-backend/pkg/errors"
	"marketplace-backend/pkg/utils"
)

const defaultSubscriptionDays = 30

// Service implements the subscription ledger: deactivate-then-insert
// toggles with the denormalized premium and promoted flags kept in step.
type Service struct {
	subscriptionRepo domainSubscription.Repository
	userRepo         domainUser.Repository
	productRepo      domainProduct.Repository
	shopRepo         domainShop.Repository
}

func NewService(
	subscriptionRepo domainSubscription.Repository,
	userRepo domainUser.Repository,
	productRepo domainProduct.Repository,
	shopRepo domainShop.Repository,
) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		productRepo:      productRepo,
		shopRepo:         shopRepo,
	}
}

// Toggle sets the subscription for a (type, target) pair to the requested
// premium state. Activating supersedes any existing active row with a
// fresh one; deactivating retires the active row if there is one. Either
// way the denormalized flag ends up matching the request.
func (s *Service) Toggle(ctx context.Context, adminID uint, req *ToggleSubscriptionRequest) (*ToggleSubscriptionResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	subType := domainSubscription.Type(req.Type)
	if !subType.Valid() {
		return nil, appErrors.Validation(domainSubscription.ErrInvalidType.Error())
	}
	if err := s.checkTarget(ctx, subType, req.TargetID); err != nil {
		return nil, err
	}

	if !*req.IsPremium {
		found, err := s.subscriptionRepo.DeactivateActive(ctx, subType, req.TargetID)
		if err != nil {
			return nil, err
		}
		if err := s.syncFlag(ctx, subType, req.TargetID, false); err != nil {
			return nil, err
		}

		if found {
			logger.Info("Subscription deactivated",
				zap.String("type", req.Type),
				zap.Uint("target_id", req.TargetID),
				zap.Uint("admin_id", adminID),
				zap.String("event", "subscription_deactivated"),
			)
		}
		return &ToggleSubscriptionResponse{Activated: false}, nil
	}

	now := time.Now()
	start := now
	if req.StartDate != nil {
		start = *req.StartDate
	}
	days := req.Days
	if days <= 0 {
		days = defaultSubscriptionDays
	}
	end := start.AddDate(0, 0, days)
	if req.EndDate != nil {
		end = *req.EndDate
	}
	if !end.After(start) {
		return nil, appErrors.Validation("end_date must be after start_date")
	}

	sub := &domainSubscription.Subscription{
		Type:      subType,
		TargetID:  req.TargetID,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
		CreatedBy: &adminID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.subscriptionRepo.CreateActive(ctx, sub); err != nil {
		return nil, err
	}
	if err := s.syncFlag(ctx, subType, req.TargetID, true); err != nil {
		return nil, err
	}

	logger.Info("Subscription activated",
		zap.String("type", req.Type),
		zap.Uint("target_id", req.TargetID),
		zap.Time("end_date", end),
		zap.Uint("admin_id", adminID),
		zap.String("event", "subscription_activated"),
	)

	return &ToggleSubscriptionResponse{
		Activated:    true,
		Subscription: toSubscriptionResponse(sub),
	}, nil
}

// Status reports whether a valid subscription exists for the target.
func (s *Service) Status(ctx context.Context, subType domainSubscription.Type, targetID uint) (*StatusResponse, error) {
	if !subType.Valid() {
		return nil, appErrors.Validation(domainSubscription.ErrInvalidType.Error())
	}

	status := &StatusResponse{Type: string(subType), TargetID: targetID}
	active, err := s.subscriptionRepo.GetActive(ctx, subType, targetID)
	if err != nil || active == nil {
		return status, nil
	}

	status.Active = toSubscriptionResponse(active)
	status.IsValid = active.IsValid()
	return status, nil
}

// History lists every subscription row ever created for the target,
// superseded ones included.
func (s *Service) History(ctx context.Context, subType domainSubscription.Type, targetID uint) ([]*SubscriptionResponse, error) {
	if !subType.Valid() {
		return nil, appErrors.Validation(domainSubscription.ErrInvalidType.Error())
	}

	subs, err := s.subscriptionRepo.ListForTarget(ctx, subType, targetID)
	if err != nil {
		return nil, err
	}

	responses := make([]*SubscriptionResponse, len(subs))
	for i, sub := range subs {
		responses[i] = toSubscriptionResponse(sub)
	}
	return responses, nil
}

func (s *Service) checkTarget(ctx context.Context, subType domainSubscription.Type, targetID uint) error {
	var err error
	switch subType {
	case domainSubscription.TypeUser:
		_, err = s.userRepo.GetByID(ctx, targetID)
	case domainSubscription.TypeProduct:
		_, err = s.productRepo.GetByID(ctx, targetID)
	case domainSubscription.TypeShop:
		_, err = s.shopRepo.GetByID(ctx, targetID)
	}
	if err != nil {
		return appErrors.NotFound(domainSubscription.ErrTargetNotFound.Error())
	}
	return nil
}

// syncFlag keeps the denormalized premium and promoted flags aligned with
// the ledger. Product subscriptions have no flag; visibility is derived
// from the ledger at query time.
func (s *Service) syncFlag(ctx context.Context, subType domainSubscription.Type, targetID uint, on bool) error {
	switch subType {
	case domainSubscription.TypeUser:
		return s.userRepo.SetPremium(ctx, targetID, on)
	case domainSubscription.TypeShop:
		return s.shopRepo.SetPromoted(ctx, targetID, on)
	}
	return nil
}
