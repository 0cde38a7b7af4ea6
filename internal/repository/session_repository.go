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

type sessionRepository struct {
	db DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db DBTX) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a session. A second session for the same account yields ErrDuplicateSession.
func (r *sessionRepository) Create(ctx context.Context, session *domain.AccountSession) error {
	query := `
		INSERT INTO account_sessions (id, account_id, expires_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.AccountID,
		session.ExpiresAt,
		session.Status,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return fmt.Errorf("failed to create session: %w", dup)
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by ID
func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.AccountSession, error) {
	query := `
		SELECT id, account_id, expires_at, status, created_at, updated_at
		FROM account_sessions
		WHERE id = $1
	`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// GetByAccountIDForUpdate retrieves and locks the session of an account
func (r *sessionRepository) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*domain.AccountSession, error) {
	query := `
		SELECT id, account_id, expires_at, status, created_at, updated_at
		FROM account_sessions
		WHERE account_id = $1
		FOR UPDATE
	`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session for account %s not found: %w", accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session by account: %w", err)
	}

	return session, nil
}

// Update persists status and expiry of a session
func (r *sessionRepository) Update(ctx context.Context, session *domain.AccountSession) error {
	query := `
		UPDATE account_sessions
		SET status = $1, expires_at = $2, updated_at = $3
		WHERE id = $4
	`

	session.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, session.Status, session.ExpiresAt, session.UpdatedAt, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session %s not found: %w", session.ID, ErrNotFound)
	}

	return nil
}

// Logout marks an active session owned by accountID as logged out
func (r *sessionRepository) Logout(ctx context.Context, id, accountID string) (bool, error) {
	query := `
		UPDATE account_sessions
		SET status = $1, updated_at = $2
		WHERE id = $3 AND account_id = $4 AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query, domain.SessionLogout, time.Now(), id, accountID, domain.SessionActive)
	if err != nil {
		return false, fmt.Errorf("failed to logout session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteByAccountID removes every session of an account
func (r *sessionRepository) DeleteByAccountID(ctx context.Context, accountID string) (int64, error) {
	query := `DELETE FROM account_sessions WHERE account_id = $1`

	result, err := r.db.ExecContext(ctx, query, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func scanSession(row *sql.Row) (*domain.AccountSession, error) {
	session := &domain.AccountSession{}
	err := row.Scan(
		&session.ID,
		&session.AccountID,
		&session.ExpiresAt,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}
