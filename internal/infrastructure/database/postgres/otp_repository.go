package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainShop "marketplace-backend/internal/domain/shop"
	"marketplace-backend/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// OTPRepository implements domainShop.OTPRepository
type OTPRepository struct {
	db *DB
}

func NewOTPRepository(db *DB) domainShop.OTPRepository {
	return &OTPRepository{db: db}
}

// CreateSuperseding invalidates any unused OTP for the (shop, type) pair
// and inserts the new one in a single transaction, keeping at most one
// active code per channel.
func (r *OTPRepository) CreateSuperseding(ctx context.Context, otp *domainShop.VerificationOTP) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.VerificationOTPModel{}).
			Where("shop_id = ? AND otp_type = ? AND is_used = false", otp.ShopID, string(otp.OTPType)).
			Update("is_used", true).Error
		if err != nil {
			return fmt.Errorf("failed to supersede prior otps: %w", err)
		}

		dbModel := &models.VerificationOTPModel{
			ShopID:       otp.ShopID,
			OTPHash:      otp.OTPHash,
			OTPType:      string(otp.OTPType),
			ContactValue: otp.ContactValue,
			ExpiresAt:    otp.ExpiresAt,
			CreatedAt:    time.Now(),
		}
		if err := tx.Create(dbModel).Error; err != nil {
			return fmt.Errorf("failed to create otp: %w", err)
		}

		otp.ID = dbModel.ID
		otp.CreatedAt = dbModel.CreatedAt
		return nil
	})
}

func (r *OTPRepository) GetActive(ctx context.Context, shopID uint, otpType domainShop.OTPType) (*domainShop.VerificationOTP, error) {
	var dbModel models.VerificationOTPModel
	err := r.db.DB.WithContext(ctx).
		Where("shop_id = ? AND otp_type = ? AND is_used = false", shopID, string(otpType)).
		Order("created_at DESC").
		First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainShop.ErrNoActiveOTP
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active otp: %w", err)
	}

	return &domainShop.VerificationOTP{
		ID:           dbModel.ID,
		ShopID:       dbModel.ShopID,
		OTPHash:      dbModel.OTPHash,
		OTPType:      domainShop.OTPType(dbModel.OTPType),
		ContactValue: dbModel.ContactValue,
		ExpiresAt:    dbModel.ExpiresAt,
		VerifiedAt:   dbModel.VerifiedAt,
		IsUsed:       dbModel.IsUsed,
		CreatedAt:    dbModel.CreatedAt,
	}, nil
}

func (r *OTPRepository) MarkUsed(ctx context.Context, otpID uint) error {
	now := time.Now()
	result := r.db.DB.WithContext(ctx).
		Model(&models.VerificationOTPModel{}).
		Where("id = ? AND is_used = false", otpID).
		Updates(map[string]interface{}{
			"is_used":     true,
			"verified_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark otp used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShop.ErrOTPUsed
	}
	return nil
}
