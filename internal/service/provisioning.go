package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/domain"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/prperemyshlev/connect-service/internal/repository"
	"github.com/prperemyshlev/connect-service/internal/utils"
	"go.uber.org/zap"
)

const defaultStoreName = "my virtual store"

// SignUp provisions an account with its profile, store, session and
// subscription in one transaction and issues the first token
func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*AuthResult, error) {
	result, err := s.signUp(ctx, req)
	s.metrics.SignUp(ctx, outcomeOf(err))
	if err != nil {
		s.logger.Error("sign-up failed", zap.Error(err))
	}
	return result, err
}

func (s *authService) signUp(ctx context.Context, req *dto.SignUpRequest) (*AuthResult, error) {
	sector := req.Sector
	if sector == "" {
		sector = domain.DefaultSector
	}
	plan := req.Plan
	if plan == "" {
		plan = dto.DefaultPlan
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var result *AuthResult
	err = s.tx.WithTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		now := s.now()

		account := &domain.Account{
			Document:     req.Document,
			Names:        req.Names,
			Email:        utils.SanitizeEmail(req.Email),
			PasswordHash: passwordHash,
		}
		if err := repos.Account.Create(ctx, account); err != nil {
			return accountConflictError(err)
		}
		log := s.logger.With(zap.String("account_id", account.ID))
		log.Info("account created")

		profile := &domain.AccountProfile{AccountID: account.ID}
		if err := repos.Profile.Create(ctx, profile); err != nil {
			return err
		}
		log.Info("profile created", zap.String("profile_id", profile.ID))

		terminology := s.catalog.Terminology(sector)
		log.Info("sector resolved",
			zap.String("sector", sector),
			zap.Any("terminology", terminology),
		)

		store := &domain.Store{
			AccountID:   account.ID,
			Name:        defaultStoreName,
			Description: "Store created by " + req.Names,
			Sector:      sector,
			Terminology: terminology,
		}
		if err := repos.Store.Create(ctx, store); err != nil {
			return err
		}
		log.Info("store created", zap.String("store_id", store.ID))

		session := domain.NewSession(account.ID, now, s.sessionTimeout)
		if err := repos.Session.Create(ctx, session); err != nil {
			return err
		}
		log.Info("session created", zap.String("session_id", session.ID))

		selection, err := s.resolvePlan(ctx, repos, req.Code, plan, now)
		if err != nil {
			return err
		}
		log.Info("plan resolved",
			zap.String("plan", selection.Plan),
			zap.Time("end_date", selection.EndDate),
			zap.Float64p("preferential_price", selection.PreferentialPrice),
			zap.String("status", string(selection.Status)),
		)

		subscription := &domain.AccountSubscription{
			AccountID: account.ID,
			Plan:      selection.Plan,
			EndDate:   selection.EndDate,
			Status:    selection.Status,
		}
		if err := repos.Subscription.Create(ctx, subscription); err != nil {
			return err
		}
		log.Info("subscription created", zap.String("subscription_id", subscription.ID))

		result, err = s.issue(account, profile, session.ID, store.ID, subscription.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// resolvePlan redeems code when given, otherwise starts a trial of the catalog plan
func (s *authService) resolvePlan(ctx context.Context, repos *repository.Repositories, code, plan string, now time.Time) (domain.PlanSelection, error) {
	if code != "" {
		planCode, err := repos.PlanCode.Redeem(ctx, code, now)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.PlanSelection{}, apperr.BadRequest("code does not exist or already used").Wrap(err)
			}
			return domain.PlanSelection{}, err
		}

		endDate := domain.TrialEnd(now, planCode.DaysTrial)
		if planCode.EndDate != nil {
			endDate = *planCode.EndDate
		}

		return domain.PlanSelection{
			Plan:              planCode.Plan,
			EndDate:           endDate,
			PreferentialPrice: planCode.PreferentialPrice,
			Status:            domain.SubscriptionPromo,
		}, nil
	}

	definition, ok := s.catalog.Plan(plan)
	if !ok {
		return domain.PlanSelection{}, apperr.BadRequest("plan does not exist")
	}

	price := definition.Price
	return domain.PlanSelection{
		Plan:              plan,
		EndDate:           domain.TrialEnd(now, definition.Trial.Days),
		PreferentialPrice: &price,
		Status:            domain.SubscriptionTrial,
	}, nil
}

// accountConflictError maps unique violations on accounts to conflicts
func accountConflictError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperr.Conflict("an account with this email already exists").Wrap(err)
	case errors.Is(err, repository.ErrDuplicateDocument):
		return apperr.Conflict("an account with this document already exists").Wrap(err)
	case errors.Is(err, repository.ErrDuplicatePhone):
		return apperr.Conflict("an account with this phone already exists").Wrap(err)
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict("account already exists").Wrap(err)
	default:
		return err
	}
}
