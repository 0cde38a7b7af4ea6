package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prperemyshlev/connect-service/pkg/database"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repositories holds all repository interfaces
type Repositories struct {
	Account       AccountRepository
	Profile       ProfileRepository
	Store         StoreRepository
	StoreSettings StoreSettingsRepository
	Session       SessionRepository
	Subscription  SubscriptionRepository
	PlanCode      PlanCodeRepository
	Recovery      RecoveryRepository
}

// NewRepositories creates all repositories on top of the connection pool
func NewRepositories(db *database.Postgres) *Repositories {
	return newRepositories(db.DB)
}

func newRepositories(db DBTX) *Repositories {
	return &Repositories{
		Account:       NewAccountRepository(db),
		Profile:       NewProfileRepository(db),
		Store:         NewStoreRepository(db),
		StoreSettings: NewStoreSettingsRepository(db),
		Session:       NewSessionRepository(db),
		Subscription:  NewSubscriptionRepository(db),
		PlanCode:      NewPlanCodeRepository(db),
		Recovery:      NewRecoveryRepository(db),
	}
}

// sqlTransactor runs units of work inside PostgreSQL transactions
type sqlTransactor struct {
	db *sql.DB
}

// NewTransactor creates a Transactor backed by db
func NewTransactor(db *database.Postgres) Transactor {
	return &sqlTransactor{db: db.DB}
}

// WithTx begins a transaction, runs fn with repositories bound to it and
// commits on success. Errors and panics roll the transaction back.
func (t *sqlTransactor) WithTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	return fn(ctx, newRepositories(tx))
}
