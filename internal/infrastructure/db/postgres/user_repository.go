package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/luminara-systems/platform-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository on GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := toUserModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The constraint does not say which column collided; re-probe by
			// email to keep the email-takes-precedence contract.
			if _, probeErr := r.FindByEmail(ctx, user.Email); probeErr == nil {
				return nil, domain.ErrEmailTaken
			}
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	return r.findOne(ctx, "email = ? OR username = ?", email, username)
}

func (r *UserRepository) FindByEmailOrProviderIdentity(ctx context.Context, email, provider, providerID string) (*domain.User, error) {
	if email == "" {
		return r.findOne(ctx, "provider = ? AND provider_id = ?", provider, providerID)
	}
	return r.findOne(ctx, "email = ? OR (provider = ? AND provider_id = ?)", email, provider, providerID)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomainUser(&m), nil
}

func (r *UserRepository) UpdateEmail(ctx context.Context, id uint, email string, verified bool) (*domain.User, error) {
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).
		Updates(map[string]any{"email": email, "is_verified": verified}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update email: %w", err)
	}
	return r.FindByID(ctx, id)
}

// Delete removes the user and every row it owns in one transaction.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, owned := range []any{&verificationModel{}, &subdomainModel{}, &adminTokenModel{}} {
			if err := tx.Where("user_id = ?", id).Delete(owned).Error; err != nil {
				return fmt.Errorf("cascade delete: %w", err)
			}
		}
		res := tx.Delete(&userModel{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

