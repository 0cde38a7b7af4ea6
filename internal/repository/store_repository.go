package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/connect-service/internal/domain"
)

type storeRepository struct {
	db DBTX
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db DBTX) StoreRepository {
	return &storeRepository{db: db}
}

// Create inserts a store; terminology, address and contact are stored as JSONB
func (r *storeRepository) Create(ctx context.Context, store *domain.Store) error {
	query := `
		INSERT INTO stores (id, account_id, name, description, sector, terminology, address, contact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if store.Sector == "" {
		store.Sector = domain.DefaultSector
	}

	now := time.Now()
	if store.CreatedAt.IsZero() {
		store.CreatedAt = now
	}
	if store.UpdatedAt.IsZero() {
		store.UpdatedAt = now
	}

	terminology, err := json.Marshal(store.Terminology)
	if err != nil {
		return fmt.Errorf("failed to encode terminology: %w", err)
	}
	address, err := json.Marshal(store.Address)
	if err != nil {
		return fmt.Errorf("failed to encode address: %w", err)
	}
	contact, err := json.Marshal(store.Contact)
	if err != nil {
		return fmt.Errorf("failed to encode contact: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		store.ID,
		store.AccountID,
		store.Name,
		store.Description,
		store.Sector,
		terminology,
		address,
		contact,
		store.CreatedAt,
		store.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return fmt.Errorf("failed to create store: %w", dup)
		}
		return fmt.Errorf("failed to create store: %w", err)
	}

	return nil
}

const storeColumns = `id, account_id, name, COALESCE(description, ''), sector, terminology, address, contact, created_at, updated_at`

// GetByAccountID retrieves the store owned by an account
func (r *storeRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE account_id = $1`

	store, err := scanStore(r.db.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store for account %s not found: %w", accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return store, nil
}

// GetByID retrieves a store by ID
func (r *storeRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`

	store, err := scanStore(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store by id: %w", err)
	}

	return store, nil
}

// Update saves the editable store fields
func (r *storeRepository) Update(ctx context.Context, store *domain.Store) error {
	query := `
		UPDATE stores
		SET name = $1, description = $2, sector = $3, terminology = $4, address = $5, contact = $6, updated_at = $7
		WHERE id = $8
	`

	terminology, err := json.Marshal(store.Terminology)
	if err != nil {
		return fmt.Errorf("failed to encode terminology: %w", err)
	}
	address, err := json.Marshal(store.Address)
	if err != nil {
		return fmt.Errorf("failed to encode address: %w", err)
	}
	contact, err := json.Marshal(store.Contact)
	if err != nil {
		return fmt.Errorf("failed to encode contact: %w", err)
	}

	store.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		store.Name,
		store.Description,
		store.Sector,
		terminology,
		address,
		contact,
		store.UpdatedAt,
		store.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update store: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("store %s not found: %w", store.ID, ErrNotFound)
	}

	return nil
}

func scanStore(row *sql.Row) (*domain.Store, error) {
	store := &domain.Store{}
	var terminology, address, contact []byte

	err := row.Scan(
		&store.ID,
		&store.AccountID,
		&store.Name,
		&store.Description,
		&store.Sector,
		&terminology,
		&address,
		&contact,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(terminology, &store.Terminology); err != nil {
		return nil, fmt.Errorf("failed to decode terminology: %w", err)
	}
	if err := json.Unmarshal(address, &store.Address); err != nil {
		return nil, fmt.Errorf("failed to decode address: %w", err)
	}
	if err := json.Unmarshal(contact, &store.Contact); err != nil {
		return nil, fmt.Errorf("failed to decode contact: %w", err)
	}

	return store, nil
}
