package postgres

import (
	"context"
	"fmt"
	"strings"

	domainShop "marketplace-backend/internal/domain/shop"
	"marketplace-backend/internal/infrastructure/database/postgres/models"
)

// FollowRepository implements domainShop.FollowRepository
type FollowRepository struct {
	db *DB
}

func NewFollowRepository(db *DB) domainShop.FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Create(ctx context.Context, f *domainShop.ShopFollow) error {
	dbModel := &models.ShopFollowModel{
		UserID:     f.UserID,
		ShopID:     f.ShopID,
		FollowedAt: f.FollowedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainShop.ErrAlreadyFollowing
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}

	f.ID = dbModel.ID
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, userID, shopID uint) error {
	result := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		Delete(&models.ShopFollowModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete follow: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShop.ErrFollowNotFound
	}
	return nil
}

func (r *FollowRepository) ListByShop(ctx context.Context, shopID uint) ([]*domainShop.ShopFollow, error) {
	var dbModels []models.ShopFollowModel
	err := r.db.DB.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("followed_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}

	follows := make([]*domainShop.ShopFollow, len(dbModels))
	for i, m := range dbModels {
		follows[i] = &domainShop.ShopFollow{
			ID:         m.ID,
			UserID:     m.UserID,
			ShopID:     m.ShopID,
			FollowedAt: m.FollowedAt,
		}
	}
	return follows, nil
}

func (r *FollowRepository) CountByShop(ctx context.Context, shopID uint) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.ShopFollowModel{}).
		Where("shop_id = ?", shopID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}
