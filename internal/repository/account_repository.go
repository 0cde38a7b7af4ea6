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

const accountColumns = `id, document, names, paternal_surnames, maternal_surnames, birthday, gender,
		email, phone, password_hash, created_at, updated_at`

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db DBTX) AccountRepository {
	return &accountRepository{db: db}
}

// Create inserts a new account
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Document,
		account.Names,
		account.PaternalSurnames,
		account.MaternalSurnames,
		account.Birthday,
		account.Gender,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return fmt.Errorf("failed to create account: %w", dup)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

// GetByIdentifier retrieves an account whose email, phone or document equals identifier
func (r *accountRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1 OR phone = $1 OR document = $1
		LIMIT 1
	`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by identifier: %w", err)
	}

	return account, nil
}

// GetByEmailOrDocument retrieves an account whose email or document equals identifier
func (r *accountRepository) GetByEmailOrDocument(ctx context.Context, identifier string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1 OR document = $1
		LIMIT 1
	`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, identifier))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by email or document: %w", err)
	}

	return account, nil
}

// UpdatePassword replaces the stored password hash
func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account %s not found: %w", id, ErrNotFound)
	}

	return nil
}

// Update saves the mutable identity fields of an account
func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET document = $1, names = $2, paternal_surnames = $3, maternal_surnames = $4,
			birthday = $5, gender = $6, email = $7, phone = $8, updated_at = $9
		WHERE id = $10
	`

	account.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		account.Document,
		account.Names,
		account.PaternalSurnames,
		account.MaternalSurnames,
		account.Birthday,
		account.Gender,
		account.Email,
		account.Phone,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return fmt.Errorf("failed to update account: %w", dup)
		}
		return fmt.Errorf("failed to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account %s not found: %w", account.ID, ErrNotFound)
	}

	return nil
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.ID,
		&account.Document,
		&account.Names,
		&account.PaternalSurnames,
		&account.MaternalSurnames,
		&account.Birthday,
		&account.Gender,
		&account.Email,
		&account.Phone,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}
