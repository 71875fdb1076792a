package shop

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainShop "marketplace-backend/internal/domain/shop"
	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/logger"
	appErrors "marketplace-backend/pkg/errors"
	"marketplace-backend/pkg/utils"
)

// Service implements shop management for sellers and the follow
// relationship for buyers.
type Service struct {
	shopRepo   domainShop.Repository
	followRepo domainShop.FollowRepository
	userRepo   domainUser.Repository
}

func NewService(
	shopRepo domainShop.Repository,
	followRepo domainShop.FollowRepository,
	userRepo domainUser.Repository,
) *Service {
	return &Service{
		shopRepo:   shopRepo,
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// CreateShop opens the seller's storefront. Each seller owns at most one
// shop; a second create is rejected.
func (s *Service) CreateShop(ctx context.Context, sellerID uint, req *CreateShopRequest) (*ShopResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	seller, err := s.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		return nil, appErrors.NotFound("Seller not found")
	}
	if seller.Role != domainUser.RoleSeller {
		return nil, appErrors.Forbidden("Only sellers can create shops")
	}

	if existing, err := s.shopRepo.GetByOwnerID(ctx, sellerID); err == nil && existing != nil {
		return nil, appErrors.Conflict(domainShop.ErrShopAlreadyExists.Error())
	}

	now := time.Now()
	shop := &domainShop.Shop{
		Name:               utils.SanitizeString(req.Name),
		Description:        sanitizeOptional(req.Description),
		Address:            sanitizeOptional(req.Address),
		Region:             sanitizeOptional(req.Region),
		District:           sanitizeOptional(req.District),
		Town:               sanitizeOptional(req.Town),
		Phone:              sanitizePhoneOptional(req.Phone),
		Email:              sanitizeEmailOptional(req.Email),
		IsActive:           true,
		OwnerID:            sellerID,
		VerificationStatus: domainShop.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, err
	}

	logger.Info("Shop created",
		zap.Uint("shop_id", shop.ID),
		zap.Uint("owner_id", sellerID),
		zap.String("event", "shop_created"),
	)

	return ToShopResponse(shop), nil
}

// GetMyShop returns the seller's own shop.
func (s *Service) GetMyShop(ctx context.Context, sellerID uint) (*ShopResponse, error) {
	shop, err := s.shopRepo.GetByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found for this seller")
	}
	return ToShopResponse(shop), nil
}

// GetShop returns the public view of a shop.
func (s *Service) GetShop(ctx context.Context, shopID uint) (*ShopResponse, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found")
	}
	return ToShopResponse(shop), nil
}

// UpdateShop edits the seller's shop. Changing a contact value clears its
// verified flag, so the new value must be proven again.
func (s *Service) UpdateShop(ctx context.Context, sellerID uint, req *UpdateShopRequest) (*ShopResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	shop, err := s.shopRepo.GetByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found for this seller")
	}

	s.applyShopUpdate(shop, req)
	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}

	return ToShopResponse(shop), nil
}

// applyShopUpdate writes the requested fields onto the shop. A changed
// contact value clears its verified flag.
func (s *Service) applyShopUpdate(shop *domainShop.Shop, req *UpdateShopRequest) {
	if req.Name != nil {
		shop.Name = utils.SanitizeString(*req.Name)
	}
	if req.Description != nil {
		shop.Description = sanitizeOptional(req.Description)
	}
	if req.Address != nil {
		shop.Address = sanitizeOptional(req.Address)
	}
	if req.Region != nil {
		shop.Region = sanitizeOptional(req.Region)
	}
	if req.District != nil {
		shop.District = sanitizeOptional(req.District)
	}
	if req.Town != nil {
		shop.Town = sanitizeOptional(req.Town)
	}
	if req.Phone != nil {
		phone := utils.SanitizePhone(*req.Phone)
		if shop.Phone == nil || *shop.Phone != phone {
			shop.PhoneVerified = false
		}
		shop.Phone = &phone
	}
	if req.Email != nil {
		email := utils.SanitizeEmail(*req.Email)
		if shop.Email == nil || *shop.Email != email {
			shop.EmailVerified = false
		}
		shop.Email = &email
	}
	if req.IsActive != nil {
		shop.IsActive = *req.IsActive
	}
	shop.UpdatedAt = time.Now()
}

// AdminListShops is the moderation view over all shops, inactive and
// unverified ones included.
func (s *Service) AdminListShops(ctx context.Context, req *ListShopsRequest) (*ShopListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := &domainShop.Filter{
		Region:   utils.SanitizeString(req.Region),
		Search:   utils.SanitizeString(req.Search),
		IsActive: req.IsActive,
		Page:     page,
		PageSize: pageSize,
	}
	if req.Status != "" {
		status := domainShop.VerificationStatus(req.Status)
		filter.Status = &status
	}

	shops, total, err := s.shopRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	response := &ShopListResponse{
		Shops:    make([]*ShopResponse, len(shops)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i, sh := range shops {
		response.Shops[i] = ToShopResponse(sh)
	}
	return response, nil
}

// AdminUpdateShop edits any shop by ID. The contact-proof reset on
// changed values applies here exactly as it does for the owner.
func (s *Service) AdminUpdateShop(ctx context.Context, shopID uint, req *UpdateShopRequest) (*ShopResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "Invalid input", err)
	}

	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found")
	}

	s.applyShopUpdate(shop, req)
	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}

	logger.Info("Shop updated by admin",
		zap.Uint("shop_id", shop.ID),
		zap.String("event", "shop_admin_updated"),
	)

	return ToShopResponse(shop), nil
}

// AdminDeleteShop removes a shop entirely.
func (s *Service) AdminDeleteShop(ctx context.Context, shopID uint) error {
	if _, err := s.shopRepo.GetByID(ctx, shopID); err != nil {
		return appErrors.NotFound("Shop not found")
	}

	if err := s.shopRepo.Delete(ctx, shopID); err != nil {
		return err
	}

	logger.Info("Shop deleted by admin",
		zap.Uint("shop_id", shopID),
		zap.String("event", "shop_admin_deleted"),
	)
	return nil
}

// FollowShop records that the user follows the shop. Following twice is a
// conflict.
func (s *Service) FollowShop(ctx context.Context, userID, shopID uint) (*FollowResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, appErrors.NotFound("User not found")
	}
	if _, err := s.shopRepo.GetByID(ctx, shopID); err != nil {
		return nil, appErrors.NotFound("Shop not found")
	}

	follow := &domainShop.ShopFollow{
		UserID:     userID,
		ShopID:     shopID,
		FollowedAt: time.Now(),
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		if err == domainShop.ErrAlreadyFollowing {
			return nil, appErrors.Conflict("Already following this shop")
		}
		return nil, err
	}

	logger.Info("Shop followed",
		zap.Uint("user_id", userID),
		zap.Uint("shop_id", shopID),
		zap.String("event", "shop_followed"),
	)

	return &FollowResponse{ShopID: shopID, Following: true}, nil
}

// UnfollowShop removes the user's follow of the shop.
func (s *Service) UnfollowShop(ctx context.Context, userID, shopID uint) (*FollowResponse, error) {
	if err := s.followRepo.Delete(ctx, userID, shopID); err != nil {
		if err == domainShop.ErrFollowNotFound {
			return nil, appErrors.NotFound("Not following this shop")
		}
		return nil, err
	}
	return &FollowResponse{ShopID: shopID, Following: false}, nil
}

// Followers lists the users following the shop, owner-facing.
func (s *Service) Followers(ctx context.Context, sellerID uint) (*FollowersResponse, error) {
	shop, err := s.shopRepo.GetByOwnerID(ctx, sellerID)
	if err != nil {
		return nil, appErrors.NotFound("Shop not found for this seller")
	}

	follows, err := s.followRepo.ListByShop(ctx, shop.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.followRepo.CountByShop(ctx, shop.ID)
	if err != nil {
		return nil, err
	}

	response := &FollowersResponse{
		ShopID:    shop.ID,
		Count:     count,
		Followers: make([]FollowerResponse, len(follows)),
	}
	for i, f := range follows {
		response.Followers[i] = FollowerResponse{UserID: f.UserID, FollowedAt: f.FollowedAt}
	}
	return response, nil
}

func sanitizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	clean := utils.SanitizeText(*value)
	if clean == "" {
		return nil
	}
	return &clean
}

func sanitizePhoneOptional(value *string) *string {
	if value == nil {
		return nil
	}
	clean := utils.SanitizePhone(*value)
	if clean == "" {
		return nil
	}
	return &clean
}

func sanitizeEmailOptional(value *string) *string {
	if value == nil {
		return nil
	}
	clean := utils.SanitizeEmail(*value)
	if clean == "" {
		return nil
	}
	return &clean
}
