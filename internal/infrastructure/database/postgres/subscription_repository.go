package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainSubscription "marketplace-backend/internal/domain/subscription"
	"marketplace-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// SubscriptionRepository implements domainSubscription.Repository
type SubscriptionRepository struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) domainSubscription.Repository {
	return &SubscriptionRepository{db: db}
}

// CreateActive deactivates any existing active row for the (type, target)
// pair and inserts the new one in a single transaction. The partial
// unique index on (type, target_id) WHERE is_active backs this up.
func (r *SubscriptionRepository) CreateActive(ctx context.Context, sub *domainSubscription.Subscription) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.SubscriptionModel{}).
			Where("type = ? AND target_id = ? AND is_active = true", string(sub.Type), sub.TargetID).
			Updates(map[string]interface{}{
				"is_active":  false,
				"updated_at": time.Now(),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to deactivate prior subscription: %w", err)
		}

		dbModel := toSubscriptionModel(sub)
		if err := tx.Create(dbModel).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		sub.ID = dbModel.ID
		sub.CreatedAt = dbModel.CreatedAt
		sub.UpdatedAt = dbModel.UpdatedAt
		return nil
	})
}

func (r *SubscriptionRepository) GetActive(ctx context.Context, subType domainSubscription.Type, targetID uint) (*domainSubscription.Subscription, error) {
	var dbModel models.SubscriptionModel
	err := r.db.DB.WithContext(ctx).
		Where("type = ? AND target_id = ? AND is_active = true", string(subType), targetID).
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainSubscription.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return toSubscriptionEntity(&dbModel), nil
}

func (r *SubscriptionRepository) DeactivateActive(ctx context.Context, subType domainSubscription.Type, targetID uint) (bool, error) {
	result := r.db.DB.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("type = ? AND target_id = ? AND is_active = true", string(subType), targetID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to deactivate subscription: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *SubscriptionRepository) ListForTarget(ctx context.Context, subType domainSubscription.Type, targetID uint) ([]*domainSubscription.Subscription, error) {
	var dbModels []models.SubscriptionModel
	err := r.db.DB.WithContext(ctx).
		Where("type = ? AND target_id = ?", string(subType), targetID).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs := make([]*domainSubscription.Subscription, len(dbModels))
	for i := range dbModels {
		subs[i] = toSubscriptionEntity(&dbModels[i])
	}
	return subs, nil
}

// Helper functions to convert between domain entities and database models

func toSubscriptionModel(s *domainSubscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:        s.ID,
		Type:      string(s.Type),
		TargetID:  s.TargetID,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		IsActive:  s.IsActive,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toSubscriptionEntity(m *models.SubscriptionModel) *domainSubscription.Subscription {
	return &domainSubscription.Subscription{
		ID:        m.ID,
		Type:      domainSubscription.Type(m.Type),
		TargetID:  m.TargetID,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		IsActive:  m.IsActive,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
