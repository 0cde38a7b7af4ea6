package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/domain"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/prperemyshlev/connect-service/internal/repository"
	"github.com/prperemyshlev/connect-service/internal/utils"
	"github.com/prperemyshlev/connect-service/pkg/observability"
	"go.uber.org/zap"
)

var errInvalidCode = apperr.Unauthorized("invalid or expired code")

// recoveryService implements RecoveryService interface
type recoveryService struct {
	repos      *repository.Repositories
	tx         repository.Transactor
	notifier   RecoveryNotifier
	metrics    *observability.AuthMetrics
	logger     *zap.Logger
	timeout    time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewRecoveryService creates a new password recovery service
func NewRecoveryService(
	repos *repository.Repositories,
	tx repository.Transactor,
	notifier RecoveryNotifier,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
	timeout time.Duration,
	bcryptCost int,
) RecoveryService {
	return &recoveryService{
		repos:      repos,
		tx:         tx,
		notifier:   notifier,
		metrics:    metrics,
		logger:     logger,
		timeout:    timeout,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// RequestRecovery issues a fresh ticket for the account matching identifier
// and emails its link. Unknown identifiers succeed silently.
func (s *recoveryService) RequestRecovery(ctx context.Context, identifier string) error {
	identifier = utils.SanitizeEmail(identifier)

	account, err := s.repos.Account.GetByEmailOrDocument(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("recovery requested for unknown identifier")
			s.metrics.RecoveryRequest(ctx, observability.OutcomeRejected)
			return nil
		}
		s.metrics.RecoveryRequest(ctx, observability.OutcomeError)
		return fmt.Errorf("failed to get account: %w", err)
	}

	log := s.logger.With(zap.String("account_id", account.ID))

	recovery := &domain.AccountRecovery{
		AccountID: account.ID,
		Code:      uuid.New().String(),
		ExpiresAt: s.now().Add(s.timeout),
		Status:    domain.RecoveryActive,
	}
	if err := s.repos.Recovery.Upsert(ctx, recovery); err != nil {
		s.metrics.RecoveryRequest(ctx, observability.OutcomeError)
		return err
	}
	log.Info("recovery ticket stored",
		zap.String("recovery_id", recovery.ID),
		zap.Time("expires_at", recovery.ExpiresAt),
	)

	if err := s.notifier.SendRecovery(ctx, account.Email, recovery.Code); err != nil {
		s.metrics.RecoveryRequest(ctx, observability.OutcomeError)
		return fmt.Errorf("failed to send recovery email: %w", err)
	}
	log.Info("recovery email sent")

	s.metrics.RecoveryRequest(ctx, observability.OutcomeSuccess)
	return nil
}

// ValidateCode returns the owner of an active, unexpired ticket
func (s *recoveryService) ValidateCode(ctx context.Context, code string) (*domain.Account, error) {
	recovery, err := s.repos.Recovery.GetValidByCode(ctx, code, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCode.Wrap(err)
		}
		return nil, err
	}

	account, err := s.repos.Account.GetByID(ctx, recovery.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCode.Wrap(err)
		}
		return nil, err
	}

	return account, nil
}

// ResetPassword replaces the password, drops every session of the account
// and consumes the ticket
func (s *recoveryService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	err := s.resetPassword(ctx, req.Code, req.Password)
	s.metrics.PasswordReset(ctx, outcomeOf(err))
	return err
}

func (s *recoveryService) resetPassword(ctx context.Context, code, password string) error {
	passwordHash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.tx.WithTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		recovery, err := repos.Recovery.GetValidByCode(ctx, code, s.now())
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errInvalidCode.Wrap(err)
			}
			return err
		}

		if err := repos.Account.UpdatePassword(ctx, recovery.AccountID, passwordHash); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errInvalidCode.Wrap(err)
			}
			return err
		}

		deleted, err := repos.Session.DeleteByAccountID(ctx, recovery.AccountID)
		if err != nil {
			return err
		}

		if err := repos.Recovery.Delete(ctx, recovery.ID); err != nil {
			return err
		}

		s.logger.Info("password reset",
			zap.String("account_id", recovery.AccountID),
			zap.Int64("sessions_removed", deleted),
		)
		return nil
	})
}
