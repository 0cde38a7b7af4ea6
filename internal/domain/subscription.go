package domain

import "time"

type SubscriptionStatus string

const (
	SubscriptionTrial      SubscriptionStatus = "trial"
	SubscriptionPromo      SubscriptionStatus = "promo"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionSuspended  SubscriptionStatus = "suspended"
	SubscriptionProcessing SubscriptionStatus = "processing"
)

// AccountSubscription tracks the plan an account is on
type AccountSubscription struct {
	ID        string             `json:"id" db:"id"`
	AccountID string             `json:"account_id" db:"account_id"`
	Plan      string             `json:"plan" db:"plan"`
	EndDate   time.Time          `json:"end_date" db:"end_date"`
	Status    SubscriptionStatus `json:"status" db:"status"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" db:"updated_at"`
}

type PlanCodeStatus string

const (
	PlanCodeValid   PlanCodeStatus = "valid"
	PlanCodeUsed    PlanCodeStatus = "used"
	PlanCodeExpired PlanCodeStatus = "expired"
)

// PlanCode is a single-use promotional code from the shared pool
type PlanCode struct {
	ID                  string         `json:"id" db:"id"`
	Code                string         `json:"code" db:"code"`
	Plan                string         `json:"plan" db:"plan"`
	DaysTrial           int            `json:"days_trial" db:"days_trial"`
	PreferentialPrice   *float64       `json:"preferential_price" db:"preferential_price"`
	Currency            string         `json:"currency" db:"currency"`
	PriceValidityMonths *int           `json:"price_validity_months" db:"price_validity_months"`
	Status              PlanCodeStatus `json:"status" db:"status"`
	EndDate             *time.Time     `json:"end_date" db:"end_date"`
	CreatedAt           time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" db:"updated_at"`
}

// PlanSelection is the plan resolved during sign-up, either from a
// redeemed code or from the plan catalog.
type PlanSelection struct {
	Plan              string
	EndDate           time.Time
	PreferentialPrice *float64
	Status            SubscriptionStatus
}

// TrialEnd returns the date that lies days calendar days after now.
func TrialEnd(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, days)
}
