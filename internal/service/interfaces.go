package service

import (
	"context"
	"time"

	"github.com/prperemyshlev/connect-service/internal/catalog"
	"github.com/prperemyshlev/connect-service/internal/domain"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/prperemyshlev/connect-service/internal/utils"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*AuthResult, error)
	SignIn(ctx context.Context, req *dto.SignInRequest) (*AuthResult, error)
	// Authenticate verifies a token and checks that its session is active
	Authenticate(ctx context.Context, token string) (*utils.AccessClaims, error)
	Logout(ctx context.Context, claims *utils.AccessClaims) error
	Me(ctx context.Context, claims *utils.AccessClaims) (*domain.Actor, error)
}

// RecoveryService defines methods for password recovery
type RecoveryService interface {
	RequestRecovery(ctx context.Context, identifier string) error
	ValidateCode(ctx context.Context, code string) (*domain.Account, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

// AccountService manages the signed-in owner's identity and profile
type AccountService interface {
	Profile(ctx context.Context, claims *utils.AccessClaims) (*dto.AccountDetail, error)
	UpdateProfile(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdateProfileRequest) error
	UpdateEmail(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdateEmailRequest) error
	UpdatePassword(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdatePasswordRequest) error
}

// StoreService manages the store bound to the session
type StoreService interface {
	Sectors() []catalog.Sector
	Detail(ctx context.Context, claims *utils.AccessClaims) (*dto.StoreDetail, error)
	Update(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdateStoreRequest) error
	UpdateSector(ctx context.Context, claims *utils.AccessClaims, req *dto.UpdateSectorRequest) (catalog.Sector, error)
}

// RecoveryNotifier delivers recovery codes to account owners
type RecoveryNotifier interface {
	SendRecovery(ctx context.Context, to, code string) error
}

// Limiter decides whether a keyed request fits its rate window
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateDecision, error)
}
