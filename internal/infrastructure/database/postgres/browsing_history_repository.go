package postgres

import (
	"context"
	"fmt"
	"time"

	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/infrastructure/database/postgres/models"
)

// BrowsingHistoryRepository implements domainUser.BrowsingHistoryRepository
type BrowsingHistoryRepository struct {
	db *DB
}

func NewBrowsingHistoryRepository(db *DB) domainUser.BrowsingHistoryRepository {
	return &BrowsingHistoryRepository{db: db}
}

func (r *BrowsingHistoryRepository) Track(ctx context.Context, e *domainUser.BrowsingEvent) error {
	dbModel := &models.BrowsingEventModel{
		UserID:          e.UserID,
		ProductID:       e.ProductID,
		CategoryID:      e.CategoryID,
		ShopID:          e.ShopID,
		InteractionType: e.InteractionType,
		ViewedAt:        e.ViewedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to track browsing event: %w", err)
	}

	e.ID = dbModel.ID
	return nil
}

func (r *BrowsingHistoryRepository) ListRecent(ctx context.Context, userID uint, since time.Time, limit int) ([]*domainUser.BrowsingEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	var dbModels []models.BrowsingEventModel
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND viewed_at >= ?", userID, since).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list browsing events: %w", err)
	}

	events := make([]*domainUser.BrowsingEvent, len(dbModels))
	for i, m := range dbModels {
		events[i] = &domainUser.BrowsingEvent{
			ID:              m.ID,
			UserID:          m.UserID,
			ProductID:       m.ProductID,
			CategoryID:      m.CategoryID,
			ShopID:          m.ShopID,
			InteractionType: m.InteractionType,
			ViewedAt:        m.ViewedAt,
		}
	}
	return events, nil
}
