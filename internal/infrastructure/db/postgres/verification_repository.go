package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/luminara-systems/platform-api/internal/core/domain"
)

// VerificationRepository implements ports.VerificationRepository on GORM.
type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, v *domain.EmailVerification) error {
	m := &verificationModel{
		UserID:    v.UserID,
		Token:     v.Token,
		ExpiresAt: v.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}
	v.ID = m.ID
	v.CreatedAt = m.CreatedAt
	return nil
}

// Redeem marks the token used and the owning user verified as one atomic
// unit: a consumed token with a still-unverified user is an unacceptable
// state, so both writes commit together or not at all.
func (r *VerificationRepository) Redeem(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	var user *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v verificationModel
		err := tx.Where("token = ? AND is_used = ? AND expires_at > ?", token, false, now).
			First(&v).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrVerificationInvalid
			}
			return fmt.Errorf("find verification: %w", err)
		}

		if err := tx.Model(&verificationModel{}).Where("id = ?", v.ID).
			Update("is_used", true).Error; err != nil {
			return fmt.Errorf("mark verification used: %w", err)
		}
		if err := tx.Model(&userModel{}).Where("id = ?", v.UserID).
			Update("is_verified", true).Error; err != nil {
			return fmt.Errorf("mark user verified: %w", err)
		}

		var m userModel
		if err := tx.First(&m, v.UserID).Error; err != nil {
			return fmt.Errorf("reload user: %w", err)
		}
		user = toDomainUser(&m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
