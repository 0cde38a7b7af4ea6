package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/prperemyshlev/connect-service/internal/repository"
	"github.com/prperemyshlev/connect-service/internal/utils"
	"go.uber.org/zap"
)

const birthdayLayout = "2006-01-02"

var errWrongPassword = apperr.BadRequest("current password is incorrect")

type accountService struct {
	repos      *repository.Repositories
	tx         repository.Transactor
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

// NewAccountService creates a new account service
func NewAccountService(
	repos *repository.Repositories,
	tx repository.Transactor,
	logger *zap.Logger,
	bcryptCost int,
) AccountService {
	return &accountService{
		repos:      repos,
		tx:         tx,
		logger:     logger,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func (s *accountService) Profile(ctx context.Context, claims *utils.AccessClaims) (*dto.AccountDetail, error) {
	account, err := s.repos.Account.GetByID(ctx, claims.Account.ID)
	if err != nil {
		return nil, notFound(err, "account not found")
	}

	profile, err := s.repos.Profile.GetByAccountID(ctx, account.ID)
	if err != nil {
		return nil, notFound(err, "profile not found")
	}

	detail := &dto.AccountDetail{
		Document:         account.Document,
		PaternalSurnames: account.PaternalSurnames,
		MaternalSurnames: account.MaternalSurnames,
		Names:            account.Names,
		Gender:           account.Gender,
		Email:            account.Email,
		Phone:            account.Phone,
		Biography:        profile.Biography,
		Timezone:         profile.Timezone,
		Language:         profile.Language,
		ProfilePhoto:     profile.ProfilePhoto,
		CreatedAt:        account.CreatedAt,
		UpdatedAt:        account.UpdatedAt,
	}
	if account.Birthday != nil {
		birthday := account.Birthday.Format(birthdayLayout)
		detail.Birthday = &birthday
	}

	return detail, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdateProfileRequest) error {
	var birthday *time.Time
	if req.Birthday != nil {
		parsed, err := time.Parse(birthdayLayout, *req.Birthday)
		if err != nil || parsed.After(s.now()) {
			return apperr.Validation("request validation failed", []apperr.FieldError{
				{Field: "birthday", Message: "must be a past date"},
			})
		}
		birthday = &parsed
	}

	log := s.logger.With(zap.String("account_id", claims.Account.ID))

	return s.tx.WithTx(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		if req.AccountFields() {
			account, err := repos.Account.GetByID(ctx, claims.Account.ID)
			if err != nil {
				return notFound(err, "account not found")
			}

			if req.Document != nil {
				account.Document = strings.TrimSpace(*req.Document)
			}
			if req.Names != nil {
				account.Names = strings.TrimSpace(*req.Names)
			}
			if req.PaternalSurnames != nil {
				account.PaternalSurnames = trimmed(req.PaternalSurnames)
			}
			if req.MaternalSurnames != nil {
				account.MaternalSurnames = trimmed(req.MaternalSurnames)
			}
			if birthday != nil {
				account.Birthday = birthday
			}
			if req.Gender != nil {
				account.Gender = req.Gender
			}
			if req.Phone != nil {
				account.Phone = trimmed(req.Phone)
			}

			if err := repos.Account.Update(ctx, account); err != nil {
				return accountConflictError(notFound(err, "account not found"))
			}
			log.Info("account updated")
		}

		if req.ProfileFields() {
			profile, err := repos.Profile.GetByAccountID(ctx, claims.Account.ID)
			if err != nil {
				return notFound(err, "profile not found")
			}

			if req.Biography != nil {
				profile.Biography = trimmed(req.Biography)
			}
			if req.Timezone != nil {
				profile.Timezone = *req.Timezone
			}
			if req.Language != nil {
				profile.Language = strings.ToLower(*req.Language)
			}

			if err := repos.Profile.Update(ctx, profile); err != nil {
				return notFound(err, "profile not found")
			}
			log.Info("profile updated")
		}

		return nil
	})
}

func (s *accountService) UpdateEmail(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdateEmailRequest) error {
	email := utils.SanitizeEmail(req.Email)

	account, err := s.repos.Account.GetByID(ctx, claims.Account.ID)
	if err != nil {
		return notFound(err, "account not found")
	}
	if account.Email == email {
		return nil
	}

	account.Email = email
	if err := s.repos.Account.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return apperr.Conflict("email already in use").Wrap(err)
		}
		return accountConflictError(notFound(err, "account not found"))
	}

	s.logger.Info("email updated", zap.String("account_id", account.ID))
	return nil
}

func (s *accountService) UpdatePassword(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdatePasswordRequest) error {
	account, err := s.repos.Account.GetByID(ctx, claims.Account.ID)
	if err != nil {
		return notFound(err, "account not found")
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, account.PasswordHash) {
		s.logger.Warn("password change rejected", zap.String("account_id", account.ID))
		return errWrongPassword
	}

	hash, err := utils.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repos.Account.UpdatePassword(ctx, account.ID, hash); err != nil {
		return notFound(err, "account not found")
	}

	s.logger.Info("password updated", zap.String("account_id", account.ID))
	return nil
}

// notFound turns a missing record into a 404 with msg, other errors pass through
func notFound(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msg).Wrap(err)
	}
	return err
}

func trimmed(value *string) *string {
	v := strings.TrimSpace(*value)
	return &v
}
