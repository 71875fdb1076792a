package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "marketplace-backend/internal/domain/user"
	"marketplace-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// AuthTokenRepository implements domainUser.AuthTokenRepository
type AuthTokenRepository struct {
	db *DB
}

func NewAuthTokenRepository(db *DB) domainUser.AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

func (r *AuthTokenRepository) Create(ctx context.Context, t *domainUser.AuthToken) error {
	dbModel := &models.AuthTokenModel{
		UserID:    t.UserID,
		Token:     t.Token,
		TokenType: string(t.TokenType),
		ExpiresAt: t.ExpiresAt,
		IsUsed:    t.IsUsed,
		CreatedAt: t.CreatedAt,
	}
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create auth token: %w", err)
	}

	t.ID = dbModel.ID
	return nil
}

func (r *AuthTokenRepository) GetByToken(ctx context.Context, token string, tokenType domainUser.TokenType) (*domainUser.AuthToken, error) {
	var dbModel models.AuthTokenModel
	err := r.db.DB.WithContext(ctx).
		Where("token = ? AND token_type = ?", token, string(tokenType)).
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auth token: %w", err)
	}

	return &domainUser.AuthToken{
		ID:        dbModel.ID,
		UserID:    dbModel.UserID,
		Token:     dbModel.Token,
		TokenType: domainUser.TokenType(dbModel.TokenType),
		ExpiresAt: dbModel.ExpiresAt,
		IsUsed:    dbModel.IsUsed,
		CreatedAt: dbModel.CreatedAt,
	}, nil
}

func (r *AuthTokenRepository) MarkUsed(ctx context.Context, tokenID uint) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.AuthTokenModel{}).
		Where("id = ? AND is_used = false", tokenID).
		Update("is_used", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark token used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrTokenUsed
	}
	return nil
}

func (r *AuthTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.AuthTokenModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
