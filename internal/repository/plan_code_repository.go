package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prperemyshlev/connect-service/internal/domain"
)

type planCodeRepository struct {
	db DBTX
}

// NewPlanCodeRepository creates a new promotional code repository
func NewPlanCodeRepository(db DBTX) PlanCodeRepository {
	return &planCodeRepository{db: db}
}

// Redeem flips a valid code to used. Concurrent redemptions of the same code
// race on the status predicate, so exactly one of them gets a row back.
func (r *planCodeRepository) Redeem(ctx context.Context, code string, now time.Time) (*domain.PlanCode, error) {
	query := `
		UPDATE plan_codes
		SET status = $1,
		    end_date = $2::timestamptz + make_interval(days => days_trial),
		    updated_at = $2
		WHERE code = $3 AND status = $4
		RETURNING id, code, plan, days_trial, preferential_price, currency,
		          price_validity_months, status, end_date, created_at, updated_at
	`

	planCode := &domain.PlanCode{}
	err := r.db.QueryRowContext(ctx, query, domain.PlanCodeUsed, now, code, domain.PlanCodeValid).Scan(
		&planCode.ID,
		&planCode.Code,
		&planCode.Plan,
		&planCode.DaysTrial,
		&planCode.PreferentialPrice,
		&planCode.Currency,
		&planCode.PriceValidityMonths,
		&planCode.Status,
		&planCode.EndDate,
		&planCode.CreatedAt,
		&planCode.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan code %s is not redeemable: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to redeem plan code: %w", err)
	}

	return planCode, nil
}
