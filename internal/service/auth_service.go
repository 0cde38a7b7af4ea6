package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/catalog"
	"github.com/prperemyshlev/connect-service/internal/domain"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/prperemyshlev/connect-service/internal/repository"
	"github.com/prperemyshlev/connect-service/internal/utils"
	"github.com/prperemyshlev/connect-service/pkg/observability"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = apperr.Unauthorized("invalid credentials")
	errSessionActive      = apperr.Unauthorized("session already active")
	errInvalidSession     = apperr.Unauthorized("invalid session")
)

// AuthOptions carries the tunables of the auth service
type AuthOptions struct {
	BCryptCost     int
	SessionTimeout time.Duration
}

// authService implements AuthService interface
type authService struct {
	repos          *repository.Repositories
	tx             repository.Transactor
	tokens         *utils.TokenManager
	catalog        *catalog.Catalog
	metrics        *observability.AuthMetrics
	logger         *zap.Logger
	bcryptCost     int
	sessionTimeout time.Duration
	now            func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	repos *repository.Repositories,
	tx repository.Transactor,
	tokens *utils.TokenManager,
	catalog *catalog.Catalog,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
	opts AuthOptions,
) AuthService {
	return &authService{
		repos:          repos,
		tx:             tx,
		tokens:         tokens,
		catalog:        catalog,
		metrics:        metrics,
		logger:         logger,
		bcryptCost:     opts.BCryptCost,
		sessionTimeout: opts.SessionTimeout,
		now:            time.Now,
	}
}

// SignIn checks credentials, drives the session state machine and issues a token
func (s *authService) SignIn(ctx context.Context, req *dto.SignInRequest) (*AuthResult, error) {
	result, err := s.signIn(ctx, utils.SanitizeEmail(req.Identifier), req.Password)
	s.metrics.SignIn(ctx, outcomeOf(err))
	return result, err
}

func (s *authService) signIn(ctx context.Context, identifier, password string) (*AuthResult, error) {
	account, err := s.repos.Account.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		return nil, errInvalidCredentials
	}

	log := s.logger.With(zap.String("account_id", account.ID))

	var result *AuthResult
	err = s.tx.WithTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		session, err := s.openSession(ctx, repos, account.ID, log)
		if err != nil {
			return err
		}

		profile, err := repos.Profile.GetByAccountID(ctx, account.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("profile not found").Wrap(err)
			}
			return err
		}

		store, err := repos.Store.GetByAccountID(ctx, account.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperr.NotFound("store not found").Wrap(err)
			}
			return err
		}

		var subscriptionID string
		subscription, err := repos.Subscription.GetByAccountID(ctx, account.ID)
		switch {
		case err == nil:
			subscriptionID = subscription.ID
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		result, err = s.issue(account, profile, session.ID, store.ID, subscriptionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info("signed in")
	return result, nil
}

// openSession creates the account's first session or reactivates the
// existing one, holding its row lock for the rest of the transaction
func (s *authService) openSession(ctx context.Context, repos *repository.Repositories, accountID string, log *zap.Logger) (*domain.AccountSession, error) {
	now := s.now()

	session, err := repos.Session.GetByAccountIDForUpdate(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("no previous session, creating one")
		session = domain.NewSession(accountID, now, s.sessionTimeout)
		if err := repos.Session.Create(ctx, session); err != nil {
			if errors.Is(err, repository.ErrDuplicateSession) {
				return nil, errSessionActive.Wrap(err)
			}
			return nil, err
		}
		return session, nil
	}
	if err != nil {
		return nil, err
	}

	log.Info("existing session",
		zap.String("status", string(session.Status)),
		zap.Time("expires_at", session.ExpiresAt),
	)

	if err := session.Reactivate(now, s.sessionTimeout); err != nil {
		if errors.Is(err, domain.ErrSessionAlreadyActive) {
			return nil, errSessionActive.Wrap(err)
		}
		return nil, errInvalidSession.Wrap(err)
	}

	if err := repos.Session.Update(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Authenticate validates the token and requires its session to be active.
// Session expiry is not re-checked here; sign-in owns expiry.
func (s *authService) Authenticate(ctx context.Context, token string) (*utils.AccessClaims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, utils.ErrMissingSession) {
			return nil, apperr.Unauthorized("token without session").Wrap(err)
		}
		return nil, apperr.Unauthorized("invalid or expired token").Wrap(err)
	}

	session, err := s.repos.Session.GetByID(ctx, claims.Session)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("session not found").Wrap(err)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Status != domain.SessionActive {
		return nil, apperr.Unauthorized("session is not active")
	}

	return claims, nil
}

// Logout ends the caller's active session. A missing active session is not an error.
func (s *authService) Logout(ctx context.Context, claims *utils.AccessClaims) error {
	log := s.logger.With(
		zap.String("account_id", claims.Account.ID),
		zap.String("session_id", claims.Session),
	)

	matched, err := s.repos.Session.Logout(ctx, claims.Session, claims.Account.ID)
	if err != nil {
		s.metrics.Logout(ctx, observability.OutcomeError)
		return err
	}

	if !matched {
		log.Warn("no active session to close")
		s.metrics.Logout(ctx, observability.OutcomeRejected)
		return nil
	}

	log.Info("session closed")
	s.metrics.Logout(ctx, observability.OutcomeSuccess)
	return nil
}

// Me resolves the actor behind the token claims
func (s *authService) Me(ctx context.Context, claims *utils.AccessClaims) (*domain.Actor, error) {
	return resolveActor(ctx, s.repos.Account, claims)
}

// resolveActor loads the identity behind claims through its kind's resolver
func resolveActor(ctx context.Context, accounts repository.AccountRepository, claims *utils.AccessClaims) (*domain.Actor, error) {
	kind, err := domain.ParseActorKind(claims.Account.Type)
	if err != nil {
		return nil, apperr.Unauthorized("unsupported account type").Wrap(err)
	}

	actor, err := domain.ResolveActor(ctx, kind, domain.ActorSources{Accounts: accounts}, claims.Account.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("account not found").Wrap(err)
		}
		return nil, err
	}

	return actor, nil
}

// outcomeOf classifies an operation result for metrics
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case apperr.KindOf(err) != apperr.KindInternal:
		return observability.OutcomeRejected
	default:
		return observability.OutcomeError
	}
}
