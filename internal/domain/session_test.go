package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewSession("acc-1", now, 2*time.Hour)

	assert.Equal(t, "acc-1", s.AccountID)
	assert.Equal(t, SessionActive, s.Status)
	assert.Equal(t, now.Add(2*time.Hour), s.ExpiresAt)
}

func TestReactivate(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	timeout := 24 * time.Hour

	tests := []struct {
		name       string
		status     SessionStatus
		expiresAt  time.Time
		wantErr    error
		wantStatus SessionStatus
		wantExpiry time.Time
	}{
		{
			name:       "logout becomes active",
			status:     SessionLogout,
			expiresAt:  now.Add(time.Hour),
			wantStatus: SessionActive,
			wantExpiry: now.Add(timeout),
		},
		{
			name:       "expired active is extended",
			status:     SessionActive,
			expiresAt:  now.Add(-time.Minute),
			wantStatus: SessionActive,
			wantExpiry: now.Add(timeout),
		},
		{
			name:       "live active is rejected",
			status:     SessionActive,
			expiresAt:  now.Add(time.Minute),
			wantErr:    ErrSessionAlreadyActive,
			wantStatus: SessionActive,
			wantExpiry: now.Add(time.Minute),
		},
		{
			name:       "unknown status is rejected",
			status:     SessionStatus("revoked"),
			expiresAt:  now.Add(-time.Minute),
			wantErr:    ErrSessionInvalid,
			wantStatus: SessionStatus("revoked"),
			wantExpiry: now.Add(-time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &AccountSession{Status: tt.status, ExpiresAt: tt.expiresAt}

			err := s.Reactivate(now, timeout)

			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, s.Status)
			assert.Equal(t, tt.wantExpiry, s.ExpiresAt)
		})
	}
}

func TestRecoveryIsExpired(t *testing.T) {
	now := time.Now()

	assert.True(t, (&AccountRecovery{ExpiresAt: now.Add(-time.Second)}).IsExpired(now))
	assert.False(t, (&AccountRecovery{ExpiresAt: now.Add(time.Minute)}).IsExpired(now))
}

func TestTrialEnd(t *testing.T) {
	now := time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 2, 6, 12, 0, 0, 0, time.UTC), TrialEnd(now, 7))
	assert.Equal(t, now, TrialEnd(now, 0))
}
