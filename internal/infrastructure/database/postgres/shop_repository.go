package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainShop "marketplace-backend/internal/domain/shop"
	"marketplace-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// ShopRepository implements domainShop.Repository
type ShopRepository struct {
	db *DB
}

func NewShopRepository(db *DB) domainShop.Repository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) Create(ctx context.Context, s *domainShop.Shop) error {
	dbModel := toShopModel(s)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainShop.ErrShopAlreadyExists
		}
		return fmt.Errorf("failed to create shop: %w", err)
	}

	s.ID = dbModel.ID
	s.CreatedAt = dbModel.CreatedAt
	s.UpdatedAt = dbModel.UpdatedAt
	return nil
}

func (r *ShopRepository) GetByID(ctx context.Context, shopID uint) (*domainShop.Shop, error) {
	var dbModel models.ShopModel
	err := r.db.DB.WithContext(ctx).Where("id = ?", shopID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainShop.ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return toShopEntity(&dbModel), nil
}

func (r *ShopRepository) GetByOwnerID(ctx context.Context, ownerID uint) (*domainShop.Shop, error) {
	var dbModel models.ShopModel
	err := r.db.DB.WithContext(ctx).Where("owner_id = ?", ownerID).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainShop.ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop by owner: %w", err)
	}
	return toShopEntity(&dbModel), nil
}

func (r *ShopRepository) Update(ctx context.Context, s *domainShop.Shop) error {
	s.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).
		Model(&models.ShopModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"name":           s.Name,
			"description":    s.Description,
			"address":        s.Address,
			"region":         s.Region,
			"district":       s.District,
			"town":           s.Town,
			"phone":          s.Phone,
			"email":          s.Email,
			"is_active":      s.IsActive,
			"phone_verified": s.PhoneVerified,
			"email_verified": s.EmailVerified,
			"updated_at":     s.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update shop: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShop.ErrShopNotFound
	}
	return nil
}

// UpdateVerification writes only the verification fields so concurrent
// profile edits never clobber moderation state.
func (r *ShopRepository) UpdateVerification(ctx context.Context, s *domainShop.Shop) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ShopModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"verification_status":       string(s.VerificationStatus),
			"verification_requested_at": s.VerificationRequestedAt,
			"verified_at":               s.VerifiedAt,
			"verified_by":               s.VerifiedBy,
			"rejection_reason":          s.RejectionReason,
			"verification_notes":        s.VerificationNotes,
			"updated_at":                time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update verification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShop.ErrShopNotFound
	}
	return nil
}

func (r *ShopRepository) SetContactVerified(ctx context.Context, shopID uint, otpType domainShop.OTPType) error {
	column := "phone_verified"
	if otpType == domainShop.OTPEmail {
		column = "email_verified"
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.ShopModel{}).
		Where("id = ?", shopID).
		Updates(map[string]interface{}{
			column:       true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set contact verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShop.ErrShopNotFound
	}
	return nil
}

func (r *ShopRepository) SetPromoted(ctx context.Context, shopID uint, promoted bool) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ShopModel{}).
		Where("id = ?", shopID).
		Updates(map[string]interface{}{
			"promoted":   promoted,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set promoted: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShop.ErrShopNotFound
	}
	return nil
}

func (r *ShopRepository) ListByVerificationStatus(ctx context.Context, status domainShop.VerificationStatus) ([]*domainShop.Shop, error) {
	var dbModels []models.ShopModel
	err := r.db.DB.WithContext(ctx).
		Where("verification_status = ?", string(status)).
		Order("verification_requested_at ASC NULLS LAST").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shops by status: %w", err)
	}

	shops := make([]*domainShop.Shop, len(dbModels))
	for i := range dbModels {
		shops[i] = toShopEntity(&dbModels[i])
	}
	return shops, nil
}

func (r *ShopRepository) List(ctx context.Context, filter *domainShop.Filter) ([]*domainShop.Shop, int64, error) {
	var dbModels []models.ShopModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.ShopModel{})

	if filter.Status != nil {
		db = db.Where("verification_status = ?", string(*filter.Status))
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Region != "" {
		db = db.Where("region = ?", filter.Region)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("name ILIKE ?", search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count shops: %w", err)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		db = db.Limit(filter.PageSize).Offset(offset)
	}

	if err := db.Order("created_at DESC").Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list shops: %w", err)
	}

	shops := make([]*domainShop.Shop, len(dbModels))
	for i := range dbModels {
		shops[i] = toShopEntity(&dbModels[i])
	}
	return shops, total, nil
}

func (r *ShopRepository) Deactivate(ctx context.Context, shopID uint) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ShopModel{}).
		Where("id = ?", shopID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate shop: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShop.ErrShopNotFound
	}
	return nil
}

func (r *ShopRepository) Delete(ctx context.Context, shopID uint) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", shopID).
		Delete(&models.ShopModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete shop: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShop.ErrShopNotFound
	}
	return nil
}

// Helper functions to convert between domain entities and database models

func toShopModel(s *domainShop.Shop) *models.ShopModel {
	return &models.ShopModel{
		ID:                      s.ID,
		Name:                    s.Name,
		Description:             s.Description,
		Promoted:                s.Promoted,
		Address:                 s.Address,
		Region:                  s.Region,
		District:                s.District,
		Town:                    s.Town,
		Phone:                   s.Phone,
		Email:                   s.Email,
		IsActive:                s.IsActive,
		OwnerID:                 s.OwnerID,
		VerificationStatus:      string(s.VerificationStatus),
		PhoneVerified:           s.PhoneVerified,
		EmailVerified:           s.EmailVerified,
		VerificationRequestedAt: s.VerificationRequestedAt,
		VerifiedAt:              s.VerifiedAt,
		VerifiedBy:              s.VerifiedBy,
		RejectionReason:         s.RejectionReason,
		VerificationNotes:       s.VerificationNotes,
		CreatedAt:               s.CreatedAt,
		UpdatedAt:               s.UpdatedAt,
	}
}

func toShopEntity(m *models.ShopModel) *domainShop.Shop {
	return &domainShop.Shop{
		ID:                      m.ID,
		Name:                    m.Name,
		Description:             m.Description,
		Promoted:                m.Promoted,
		Address:                 m.Address,
		Region:                  m.Region,
		District:                m.District,
		Town:                    m.Town,
		Phone:                   m.Phone,
		Email:                   m.Email,
		IsActive:                m.IsActive,
		OwnerID:                 m.OwnerID,
		VerificationStatus:      domainShop.VerificationStatus(m.VerificationStatus),
		PhoneVerified:           m.PhoneVerified,
		EmailVerified:           m.EmailVerified,
		VerificationRequestedAt: m.VerificationRequestedAt,
		VerifiedAt:              m.VerifiedAt,
		VerifiedBy:              m.VerifiedBy,
		RejectionReason:         m.RejectionReason,
		VerificationNotes:       m.VerificationNotes,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}
