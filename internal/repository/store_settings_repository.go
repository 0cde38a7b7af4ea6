package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/connect-service/internal/domain"
)

const storeSettingsColumns = `id, store_id, show_stock, infinite_stock, show_items_with_promotions, is_public, created_at, updated_at`

type storeSettingsRepository struct {
	db DBTX
}

// NewStoreSettingsRepository creates a new store settings repository
func NewStoreSettingsRepository(db DBTX) StoreSettingsRepository {
	return &storeSettingsRepository{db: db}
}

// GetOrCreate inserts default settings when the store has none and returns
// the stored row either way
func (r *storeSettingsRepository) GetOrCreate(ctx context.Context, storeID string) (*domain.StoreSettings, error) {
	query := `
		INSERT INTO store_settings (id, store_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (store_id) DO UPDATE SET store_id = EXCLUDED.store_id
		RETURNING ` + storeSettingsColumns

	settings := &domain.StoreSettings{}
	err := r.db.QueryRowContext(ctx, query, uuid.New().String(), storeID, time.Now()).Scan(
		&settings.ID,
		&settings.StoreID,
		&settings.ShowStock,
		&settings.InfiniteStock,
		&settings.ShowItemsWithPromotions,
		&settings.IsPublic,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load store settings: %w", err)
	}

	return settings, nil
}

// Update saves the display switches of a store
func (r *storeSettingsRepository) Update(ctx context.Context, settings *domain.StoreSettings) error {
	query := `
		UPDATE store_settings
		SET show_stock = $1, infinite_stock = $2, show_items_with_promotions = $3, is_public = $4, updated_at = $5
		WHERE store_id = $6
	`

	settings.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		settings.ShowStock,
		settings.InfiniteStock,
		settings.ShowItemsWithPromotions,
		settings.IsPublic,
		settings.UpdatedAt,
		settings.StoreID,
	)
	if err != nil {
		return fmt.Errorf("failed to update store settings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("settings for store %s not found: %w", settings.StoreID, ErrNotFound)
	}

	return nil
}
