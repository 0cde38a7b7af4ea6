package domain

import "time"

type RecoveryStatus string

const (
	RecoveryActive  RecoveryStatus = "active"
	RecoveryUsed    RecoveryStatus = "used"
	RecoveryExpired RecoveryStatus = "expired"
)

// AccountRecovery is a password reset ticket; at most one per account
type AccountRecovery struct {
	ID        string         `json:"id" db:"id"`
	AccountID string         `json:"account_id" db:"account_id"`
	Code      string         `json:"-" db:"code"`
	ExpiresAt time.Time      `json:"expires_at" db:"expires_at"`
	Status    RecoveryStatus `json:"status" db:"status"`
}

func (r *AccountRecovery) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
