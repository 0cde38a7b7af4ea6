package domain

import (
	"errors"
	"time"
)

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionLogout SessionStatus = "logout"
)

var (
	// ErrSessionAlreadyActive is returned when signing in over a live session
	ErrSessionAlreadyActive = errors.New("session already active")

	// ErrSessionInvalid is returned for sessions in an unknown state
	ErrSessionInvalid = errors.New("invalid session")
)

// AccountSession represents a server-side login session
type AccountSession struct {
	ID        string        `json:"id" db:"id"`
	AccountID string        `json:"account_id" db:"account_id"`
	ExpiresAt time.Time     `json:"expires_at" db:"expires_at"`
	Status    SessionStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// NewSession returns an active session that expires after timeout.
func NewSession(accountID string, now time.Time, timeout time.Duration) *AccountSession {
	return &AccountSession{
		AccountID: accountID,
		ExpiresAt: now.Add(timeout),
		Status:    SessionActive,
	}
}

// IsExpired reports whether the session expiry lies before now
func (s *AccountSession) IsExpired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// Reactivate applies a sign-in to an existing session.
//
//	logout            -> active, expiry reset
//	active, expired   -> active, expiry reset
//	active, unexpired -> ErrSessionAlreadyActive
func (s *AccountSession) Reactivate(now time.Time, timeout time.Duration) error {
	switch {
	case s.Status == SessionLogout:
		s.Status = SessionActive
		s.ExpiresAt = now.Add(timeout)
		return nil
	case s.Status == SessionActive && s.IsExpired(now):
		s.ExpiresAt = now.Add(timeout)
		return nil
	case s.Status == SessionActive:
		return ErrSessionAlreadyActive
	default:
		return ErrSessionInvalid
	}
}
