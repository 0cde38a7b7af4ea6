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

type recoveryRepository struct {
	db DBTX
}

// NewRecoveryRepository creates a new recovery ticket repository
func NewRecoveryRepository(db DBTX) RecoveryRepository {
	return &recoveryRepository{db: db}
}

// Upsert creates the account's ticket or replaces code, expiry and status of
// the existing one. recovery.ID is set to the stored row's id.
func (r *recoveryRepository) Upsert(ctx context.Context, recovery *domain.AccountRecovery) error {
	query := `
		INSERT INTO account_recoveries (id, account_id, code, expires_at, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id) DO UPDATE
		SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, status = EXCLUDED.status
		RETURNING id
	`

	if recovery.ID == "" {
		recovery.ID = uuid.New().String()
	}
	if recovery.Status == "" {
		recovery.Status = domain.RecoveryActive
	}

	err := r.db.QueryRowContext(ctx, query,
		recovery.ID,
		recovery.AccountID,
		recovery.Code,
		recovery.ExpiresAt,
		recovery.Status,
	).Scan(&recovery.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert recovery: %w", err)
	}

	return nil
}

// GetValidByCode retrieves an active ticket with the given code that has not expired at now
func (r *recoveryRepository) GetValidByCode(ctx context.Context, code string, now time.Time) (*domain.AccountRecovery, error) {
	query := `
		SELECT id, account_id, code, expires_at, status
		FROM account_recoveries
		WHERE code = $1 AND status = $2 AND expires_at > $3
	`

	recovery := &domain.AccountRecovery{}
	err := r.db.QueryRowContext(ctx, query, code, domain.RecoveryActive, now).Scan(
		&recovery.ID,
		&recovery.AccountID,
		&recovery.Code,
		&recovery.ExpiresAt,
		&recovery.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recovery code not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recovery: %w", err)
	}

	return recovery, nil
}

func (r *recoveryRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM account_recoveries WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete recovery: %w", err)
	}

	return nil
}
