package postgres

import (
	"time"

	"github.com/luminara-systems/platform-api/internal/core/domain"
)

type userModel struct {
	ID           uint    `gorm:"primaryKey"`
	Email        string  `gorm:"uniqueIndex;size:255;not null"`
	Username     string  `gorm:"uniqueIndex;size:64;not null"`
	Provider     string  `gorm:"size:32;not null;uniqueIndex:idx_provider_identity"`
	ProviderID   *string `gorm:"size:128;uniqueIndex:idx_provider_identity"`
	PasswordHash *string `gorm:"size:255"`
	IsActive     bool    `gorm:"not null;default:true"`
	IsVerified   bool    `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type verificationModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Token     string `gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time
	IsUsed    bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (verificationModel) TableName() string { return "email_verifications" }

type subdomainModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	Subdomain string `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
}

func (subdomainModel) TableName() string { return "subdomains" }

type adminTokenModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	TokenHash string `gorm:"size:255;not null"`
	CreatedAt time.Time
}

func (adminTokenModel) TableName() string { return "admin_tokens" }

func toUserModel(u *domain.User) *userModel {
	m := &userModel{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Provider:   u.Provider,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
	if u.ProviderID != "" {
		m.ProviderID = &u.ProviderID
	}
	if u.PasswordHash != "" {
		m.PasswordHash = &u.PasswordHash
	}
	return m
}

func toDomainUser(m *userModel) *domain.User {
	u := &domain.User{
		ID:         m.ID,
		Email:      m.Email,
		Username:   m.Username,
		Provider:   m.Provider,
		IsActive:   m.IsActive,
		IsVerified: m.IsVerified,
		CreatedAt:  m.CreatedAt,
	}
	if m.ProviderID != nil {
		u.ProviderID = *m.ProviderID
	}
	if m.PasswordHash != nil {
		u.PasswordHash = *m.PasswordHash
	}
	return u
}

func toDomainSubdomain(m *subdomainModel) *domain.Subdomain {
	return &domain.Subdomain{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Subdomain,
		CreatedAt: m.CreatedAt,
	}
}
