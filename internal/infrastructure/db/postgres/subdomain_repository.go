package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/luminara-systems/platform-api/internal/core/domain"
)

// SubdomainRepository implements ports.SubdomainRepository on GORM.
type SubdomainRepository struct {
	db *gorm.DB
}

func NewSubdomainRepository(db *gorm.DB) *SubdomainRepository {
	return &SubdomainRepository{db: db}
}

func (r *SubdomainRepository) Create(ctx context.Context, sub *domain.Subdomain) (*domain.Subdomain, error) {
	m := &subdomainModel{UserID: sub.UserID, Subdomain: sub.Name}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Either the name or the owner index collided; re-probe by name
			// to report the right conflict.
			if _, probeErr := r.FindByName(ctx, sub.Name); probeErr == nil {
				return nil, domain.ErrSubdomainTaken
			}
			return nil, domain.ErrAlreadyHasSubdomain
		}
		return nil, fmt.Errorf("insert subdomain: %w", err)
	}
	return toDomainSubdomain(m), nil
}

func (r *SubdomainRepository) FindByUserID(ctx context.Context, userID uint) (*domain.Subdomain, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *SubdomainRepository) FindByName(ctx context.Context, name string) (*domain.Subdomain, error) {
	return r.findOne(ctx, "subdomain = ?", name)
}

func (r *SubdomainRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Subdomain, error) {
	var m subdomainModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSubdomainNotFound
		}
		return nil, fmt.Errorf("find subdomain: %w", err)
	}
	return toDomainSubdomain(&m), nil
}

func (r *SubdomainRepository) Rename(ctx context.Context, userID uint, name string) (*domain.Subdomain, error) {
	err := r.db.WithContext(ctx).Model(&subdomainModel{}).
		Where("user_id = ?", userID).Update("subdomain", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrSubdomainTaken
		}
		return nil, fmt.Errorf("rename subdomain: %w", err)
	}
	return r.FindByUserID(ctx, userID)
}

func (r *SubdomainRepository) Delete(ctx context.Context, userID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&subdomainModel{})
	if res.Error != nil {
		return fmt.Errorf("delete subdomain: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSubdomainNotFound
	}
	return nil
}

// ReplaceAdminToken swaps the user's admin token in one transaction: the old
// row is gone and the new one present, or neither change applies.
func (r *SubdomainRepository) ReplaceAdminToken(ctx context.Context, userID uint, tokenHash string) (*domain.AdminToken, error) {
	m := &adminTokenModel{UserID: userID, TokenHash: tokenHash}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&adminTokenModel{}).Error; err != nil {
			return fmt.Errorf("delete admin token: %w", err)
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("insert admin token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &domain.AdminToken{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		CreatedAt: m.CreatedAt,
	}, nil
}
