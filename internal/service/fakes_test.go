package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/connect-service/internal/catalog"
	"github.com/prperemyshlev/connect-service/internal/domain"
	"github.com/prperemyshlev/connect-service/internal/repository"
	"github.com/prperemyshlev/connect-service/internal/utils"
	"github.com/prperemyshlev/connect-service/pkg/observability"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

const (
	testSecret     = "test-secret-key-with-at-least-32-characters"
	testBCryptCost = 4
	sessionTimeout = 24 * time.Hour
)

// memDB is an in-memory store whose transactions restore a snapshot on error
type memDB struct {
	accounts      map[string]*domain.Account             // by id
	profiles      map[string]*domain.AccountProfile      // by account id
	stores        map[string]*domain.Store               // by account id
	settings      map[string]*domain.StoreSettings       // by store id
	sessions      map[string]*domain.AccountSession      // by id
	subscriptions map[string]*domain.AccountSubscription // by account id
	planCodes     map[string]*domain.PlanCode            // by code
	recoveries    map[string]*domain.AccountRecovery     // by account id

	// failures makes the named operation fail, e.g. "subscription.create"
	failures map[string]error
}

func newMemDB() *memDB {
	return &memDB{
		accounts:      map[string]*domain.Account{},
		profiles:      map[string]*domain.AccountProfile{},
		stores:        map[string]*domain.Store{},
		settings:      map[string]*domain.StoreSettings{},
		sessions:      map[string]*domain.AccountSession{},
		subscriptions: map[string]*domain.AccountSubscription{},
		planCodes:     map[string]*domain.PlanCode{},
		recoveries:    map[string]*domain.AccountRecovery{},
		failures:      map[string]error{},
	}
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

func (db *memDB) snapshot() *memDB {
	return &memDB{
		accounts:      cloneMap(db.accounts),
		profiles:      cloneMap(db.profiles),
		stores:        cloneMap(db.stores),
		settings:      cloneMap(db.settings),
		sessions:      cloneMap(db.sessions),
		subscriptions: cloneMap(db.subscriptions),
		planCodes:     cloneMap(db.planCodes),
		recoveries:    cloneMap(db.recoveries),
	}
}

func (db *memDB) restore(s *memDB) {
	db.accounts = s.accounts
	db.profiles = s.profiles
	db.stores = s.stores
	db.settings = s.settings
	db.sessions = s.sessions
	db.subscriptions = s.subscriptions
	db.planCodes = s.planCodes
	db.recoveries = s.recoveries
}

func (db *memDB) fail(op string) error {
	return db.failures[op]
}

func (db *memDB) WithTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repositories) error) error {
	snap := db.snapshot()
	if err := fn(ctx, db.repos()); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

func (db *memDB) repos() *repository.Repositories {
	return &repository.Repositories{
		Account:       memAccounts{db},
		Profile:       memProfiles{db},
		Store:         memStores{db},
		StoreSettings: memStoreSettings{db},
		Session:       memSessions{db},
		Subscription:  memSubscriptions{db},
		PlanCode:      memPlanCodes{db},
		Recovery:      memRecoveries{db},
	}
}

func (db *memDB) sessionOf(accountID string) *domain.AccountSession {
	for _, s := range db.sessions {
		if s.AccountID == accountID {
			return s
		}
	}
	return nil
}

type memAccounts struct{ db *memDB }

func (r memAccounts) Create(ctx context.Context, a *domain.Account) error {
	if err := r.db.fail("account.create"); err != nil {
		return err
	}
	for _, existing := range r.db.accounts {
		switch {
		case existing.Email == a.Email:
			return fmt.Errorf("failed to create account: %w", repository.ErrDuplicateEmail)
		case existing.Document == a.Document:
			return fmt.Errorf("failed to create account: %w", repository.ErrDuplicateDocument)
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	c := *a
	r.db.accounts[a.ID] = &c
	return nil
}

func (r memAccounts) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	a, ok := r.db.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (r memAccounts) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	for _, a := range r.db.accounts {
		if a.Email == identifier || a.Document == identifier || (a.Phone != nil && *a.Phone == identifier) {
			c := *a
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memAccounts) GetByEmailOrDocument(ctx context.Context, identifier string) (*domain.Account, error) {
	for _, a := range r.db.accounts {
		if a.Email == identifier || a.Document == identifier {
			c := *a
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memAccounts) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	a, ok := r.db.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r memAccounts) Update(ctx context.Context, a *domain.Account) error {
	if err := r.db.fail("account.update"); err != nil {
		return err
	}
	if _, ok := r.db.accounts[a.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.db.accounts {
		if id == a.ID {
			continue
		}
		switch {
		case existing.Email == a.Email:
			return fmt.Errorf("failed to update account: %w", repository.ErrDuplicateEmail)
		case existing.Document == a.Document:
			return fmt.Errorf("failed to update account: %w", repository.ErrDuplicateDocument)
		}
	}
	c := *a
	r.db.accounts[a.ID] = &c
	return nil
}

type memProfiles struct{ db *memDB }

func (r memProfiles) Create(ctx context.Context, p *domain.AccountProfile) error {
	if err := r.db.fail("profile.create"); err != nil {
		return err
	}
	p.ID = uuid.New().String()
	c := *p
	r.db.profiles[p.AccountID] = &c
	return nil
}

func (r memProfiles) GetByAccountID(ctx context.Context, accountID string) (*domain.AccountProfile, error) {
	p, ok := r.db.profiles[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r memProfiles) Update(ctx context.Context, p *domain.AccountProfile) error {
	if err := r.db.fail("profile.update"); err != nil {
		return err
	}
	if _, ok := r.db.profiles[p.AccountID]; !ok {
		return repository.ErrNotFound
	}
	c := *p
	r.db.profiles[p.AccountID] = &c
	return nil
}

type memStores struct{ db *memDB }

func (r memStores) Create(ctx context.Context, s *domain.Store) error {
	if err := r.db.fail("store.create"); err != nil {
		return err
	}
	s.ID = uuid.New().String()
	c := *s
	r.db.stores[s.AccountID] = &c
	return nil
}

func (r memStores) GetByAccountID(ctx context.Context, accountID string) (*domain.Store, error) {
	s, ok := r.db.stores[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (r memStores) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	for _, s := range r.db.stores {
		if s.ID == id {
			c := *s
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memStores) Update(ctx context.Context, s *domain.Store) error {
	if err := r.db.fail("store.update"); err != nil {
		return err
	}
	if _, ok := r.db.stores[s.AccountID]; !ok {
		return repository.ErrNotFound
	}
	c := *s
	r.db.stores[s.AccountID] = &c
	return nil
}

type memStoreSettings struct{ db *memDB }

func (r memStoreSettings) GetOrCreate(ctx context.Context, storeID string) (*domain.StoreSettings, error) {
	if err := r.db.fail("settings.get"); err != nil {
		return nil, err
	}
	s, ok := r.db.settings[storeID]
	if !ok {
		s = &domain.StoreSettings{ID: uuid.New().String(), StoreID: storeID}
		r.db.settings[storeID] = s
	}
	c := *s
	return &c, nil
}

func (r memStoreSettings) Update(ctx context.Context, s *domain.StoreSettings) error {
	if err := r.db.fail("settings.update"); err != nil {
		return err
	}
	if _, ok := r.db.settings[s.StoreID]; !ok {
		return repository.ErrNotFound
	}
	c := *s
	r.db.settings[s.StoreID] = &c
	return nil
}

type memSessions struct{ db *memDB }

func (r memSessions) Create(ctx context.Context, s *domain.AccountSession) error {
	if err := r.db.fail("session.create"); err != nil {
		return err
	}
	if r.db.sessionOf(s.AccountID) != nil {
		return repository.ErrDuplicateSession
	}
	s.ID = uuid.New().String()
	c := *s
	r.db.sessions[s.ID] = &c
	return nil
}

func (r memSessions) GetByID(ctx context.Context, id string) (*domain.AccountSession, error) {
	s, ok := r.db.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (r memSessions) GetByAccountIDForUpdate(ctx context.Context, accountID string) (*domain.AccountSession, error) {
	s := r.db.sessionOf(accountID)
	if s == nil {
		return nil, repository.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (r memSessions) Update(ctx context.Context, s *domain.AccountSession) error {
	if _, ok := r.db.sessions[s.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *s
	r.db.sessions[s.ID] = &c
	return nil
}

func (r memSessions) Logout(ctx context.Context, id, accountID string) (bool, error) {
	s, ok := r.db.sessions[id]
	if !ok || s.AccountID != accountID || s.Status != domain.SessionActive {
		return false, nil
	}
	s.Status = domain.SessionLogout
	return true, nil
}

func (r memSessions) DeleteByAccountID(ctx context.Context, accountID string) (int64, error) {
	if err := r.db.fail("session.delete"); err != nil {
		return 0, err
	}
	var n int64
	for id, s := range r.db.sessions {
		if s.AccountID == accountID {
			delete(r.db.sessions, id)
			n++
		}
	}
	return n, nil
}

type memSubscriptions struct{ db *memDB }

func (r memSubscriptions) Create(ctx context.Context, s *domain.AccountSubscription) error {
	if err := r.db.fail("subscription.create"); err != nil {
		return err
	}
	s.ID = uuid.New().String()
	c := *s
	r.db.subscriptions[s.AccountID] = &c
	return nil
}

func (r memSubscriptions) GetByAccountID(ctx context.Context, accountID string) (*domain.AccountSubscription, error) {
	s, ok := r.db.subscriptions[accountID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *s
	return &c, nil
}

type memPlanCodes struct{ db *memDB }

func (r memPlanCodes) Redeem(ctx context.Context, code string, now time.Time) (*domain.PlanCode, error) {
	pc, ok := r.db.planCodes[code]
	if !ok || pc.Status != domain.PlanCodeValid {
		return nil, repository.ErrNotFound
	}
	end := now.AddDate(0, 0, pc.DaysTrial)
	pc.Status = domain.PlanCodeUsed
	pc.EndDate = &end
	c := *pc
	return &c, nil
}

type memRecoveries struct{ db *memDB }

func (r memRecoveries) Upsert(ctx context.Context, rec *domain.AccountRecovery) error {
	if existing, ok := r.db.recoveries[rec.AccountID]; ok {
		rec.ID = existing.ID
	} else if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	c := *rec
	r.db.recoveries[rec.AccountID] = &c
	return nil
}

func (r memRecoveries) GetValidByCode(ctx context.Context, code string, now time.Time) (*domain.AccountRecovery, error) {
	for _, rec := range r.db.recoveries {
		if rec.Code == code && rec.Status == domain.RecoveryActive && rec.ExpiresAt.After(now) {
			c := *rec
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memRecoveries) Delete(ctx context.Context, id string) error {
	for accountID, rec := range r.db.recoveries {
		if rec.ID == id {
			delete(r.db.recoveries, accountID)
		}
	}
	return nil
}

func testMetrics(t *testing.T) *observability.AuthMetrics {
	t.Helper()
	m, err := observability.NewAuthMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	return m
}

func testTokens() *utils.TokenManager {
	return utils.NewTokenManager(testSecret, time.Hour, "connect-api", "connect-client")
}

func newTestAuthService(t *testing.T, db *memDB, now time.Time) *authService {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	svc := NewAuthService(db.repos(), db, testTokens(), cat, testMetrics(t), zap.NewNop(), AuthOptions{
		BCryptCost:     testBCryptCost,
		SessionTimeout: sessionTimeout,
	}).(*authService)
	svc.now = func() time.Time { return now }
	return svc
}

// seedAccount stores an account with profile and store but no session
func seedAccount(t *testing.T, db *memDB, email, document, password string) *domain.Account {
	t.Helper()

	hash, err := utils.HashPassword(password, testBCryptCost)
	require.NoError(t, err)

	account := &domain.Account{
		ID:           uuid.New().String(),
		Document:     document,
		Names:        "Maria Lopez",
		Email:        email,
		PasswordHash: hash,
	}
	db.accounts[account.ID] = account
	db.profiles[account.ID] = &domain.AccountProfile{ID: uuid.New().String(), AccountID: account.ID}
	db.stores[account.ID] = &domain.Store{ID: uuid.New().String(), AccountID: account.ID, Sector: domain.DefaultSector}
	return account
}
