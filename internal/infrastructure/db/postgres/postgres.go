// Package postgres implements the repository ports on a relational store via
// GORM. Uniqueness invariants (email, username, subdomain, provider identity,
// one-subdomain/one-admin-token per user) are enforced by unique indexes, so a
// concurrent check-then-insert race resolves at the constraint rather than in
// application code.
package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config captures the minimal settings required to open the database.
type Config struct {
	DSN string
}

// Connect opens a Postgres-backed GORM handle and runs schema migration.
// TranslateError is required: duplicate-key errors must surface as
// gorm.ErrDuplicatedKey for the repositories to map them to domain conflicts.
func Connect(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for all persistence models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&verificationModel{},
		&subdomainModel{},
		&adminTokenModel{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
