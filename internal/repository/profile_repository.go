package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/connect-service/internal/domain"
)

type profileRepository struct {
	db DBTX
}

// NewProfileRepository creates a new account profile repository
func NewProfileRepository(db DBTX) ProfileRepository {
	return &profileRepository{db: db}
}

// Create inserts a profile, filling default timezone and language
func (r *profileRepository) Create(ctx context.Context, profile *domain.AccountProfile) error {
	query := `
		INSERT INTO account_profiles (id, account_id, biography, timezone, language, profile_photo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if profile.Timezone == "" {
		profile.Timezone = domain.DefaultTimezone
	}
	if profile.Language == "" {
		profile.Language = domain.DefaultLanguage
	}

	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.AccountID,
		profile.Biography,
		profile.Timezone,
		profile.Language,
		profile.ProfilePhoto,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return fmt.Errorf("failed to create profile: %w", dup)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// GetByAccountID retrieves the profile of an account
func (r *profileRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.AccountProfile, error) {
	query := `
		SELECT id, account_id, biography, timezone, language, profile_photo, created_at, updated_at
		FROM account_profiles
		WHERE account_id = $1
	`

	profile := &domain.AccountProfile{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&profile.ID,
		&profile.AccountID,
		&profile.Biography,
		&profile.Timezone,
		&profile.Language,
		&profile.ProfilePhoto,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile for account %s not found: %w", accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// Update saves biography, timezone and language of the account's profile
func (r *profileRepository) Update(ctx context.Context, profile *domain.AccountProfile) error {
	query := `
		UPDATE account_profiles
		SET biography = $1, timezone = $2, language = $3, updated_at = $4
		WHERE account_id = $5
	`

	profile.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		profile.Biography,
		profile.Timezone,
		profile.Language,
		profile.UpdatedAt,
		profile.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile for account %s not found: %w", profile.AccountID, ErrNotFound)
	}

	return nil
}
