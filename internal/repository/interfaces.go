package repository

import (
	"context"
	"time"

	"github.com/prperemyshlev/connect-service/internal/domain"
)

// Transactor runs a unit of work atomically
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error
}

// AccountRepository defines methods for account operations
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIdentifier matches email, phone or document
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	// GetByEmailOrDocument matches email or document
	GetByEmailOrDocument(ctx context.Context, identifier string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// Update saves identity fields and email; the password hash is untouched
	Update(ctx context.Context, account *domain.Account) error
}

// ProfileRepository defines methods for account profile operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.AccountProfile) error
	GetByAccountID(ctx context.Context, accountID string) (*domain.AccountProfile, error)
	Update(ctx context.Context, profile *domain.AccountProfile) error
}

// StoreRepository defines methods for store operations
type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	GetByAccountID(ctx context.Context, accountID string) (*domain.Store, error)
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	Update(ctx context.Context, store *domain.Store) error
}

// StoreSettingsRepository defines methods for store settings operations
type StoreSettingsRepository interface {
	// GetOrCreate returns the store's settings, inserting defaults on first access
	GetOrCreate(ctx context.Context, storeID string) (*domain.StoreSettings, error)
	Update(ctx context.Context, settings *domain.StoreSettings) error
}

// SessionRepository defines methods for session operations
type SessionRepository interface {
	Create(ctx context.Context, session *domain.AccountSession) error
	GetByID(ctx context.Context, id string) (*domain.AccountSession, error)
	// GetByAccountIDForUpdate locks the account's session row until the
	// surrounding transaction ends
	GetByAccountIDForUpdate(ctx context.Context, accountID string) (*domain.AccountSession, error)
	Update(ctx context.Context, session *domain.AccountSession) error
	// Logout moves an active session to logout; false when nothing matched
	Logout(ctx context.Context, id, accountID string) (bool, error)
	DeleteByAccountID(ctx context.Context, accountID string) (int64, error)
}

// SubscriptionRepository defines methods for subscription operations
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *domain.AccountSubscription) error
	GetByAccountID(ctx context.Context, accountID string) (*domain.AccountSubscription, error)
}

// PlanCodeRepository defines methods for promotional code operations
type PlanCodeRepository interface {
	// Redeem marks a valid code as used in a single conditional update and
	// returns the code with its end date set to now + days_trial
	Redeem(ctx context.Context, code string, now time.Time) (*domain.PlanCode, error)
}

// RecoveryRepository defines methods for recovery ticket operations
type RecoveryRepository interface {
	Upsert(ctx context.Context, recovery *domain.AccountRecovery) error
	GetValidByCode(ctx context.Context, code string, now time.Time) (*domain.AccountRecovery, error)
	Delete(ctx context.Context, id string) error
}
