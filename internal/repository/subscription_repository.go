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

type subscriptionRepository struct {
	db DBTX
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db DBTX) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *domain.AccountSubscription) error {
	query := `
		INSERT INTO account_subscriptions (id, account_id, plan, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if subscription.ID == "" {
		subscription.ID = uuid.New().String()
	}
	if subscription.Status == "" {
		subscription.Status = domain.SubscriptionTrial
	}

	now := time.Now()
	if subscription.CreatedAt.IsZero() {
		subscription.CreatedAt = now
	}
	if subscription.UpdatedAt.IsZero() {
		subscription.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		subscription.ID,
		subscription.AccountID,
		subscription.Plan,
		subscription.EndDate,
		subscription.Status,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return fmt.Errorf("failed to create subscription: %w", dup)
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

func (r *subscriptionRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.AccountSubscription, error) {
	query := `
		SELECT id, account_id, plan, end_date, status, created_at, updated_at
		FROM account_subscriptions
		WHERE account_id = $1
	`

	subscription := &domain.AccountSubscription{}
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&subscription.ID,
		&subscription.AccountID,
		&subscription.Plan,
		&subscription.EndDate,
		&subscription.Status,
		&subscription.CreatedAt,
		&subscription.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subscription for account %s not found: %w", accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return subscription, nil
}
