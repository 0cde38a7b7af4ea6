package service

import (
	"fmt"

	"github.com/prperemyshlev/connect-service/internal/domain"
	"github.com/prperemyshlev/connect-service/internal/dto"
)

// AuthResult is what sign-up and sign-in hand back to the transport layer
type AuthResult struct {
	Profile     dto.ProfileSummary
	AccessToken string
	// MaxAge is the token lifetime in seconds
	MaxAge int
}

// issue mints the access token for a session and builds the profile summary
func (s *authService) issue(account *domain.Account, profile *domain.AccountProfile, sessionID, storeID, subscriptionID string) (*AuthResult, error) {
	token, err := s.tokens.Generate(domain.TokenPayload{
		Session: sessionID,
		Account: domain.TokenAccount{
			ID:    account.ID,
			Type:  domain.AccountTypeBusiness,
			Names: account.Names,
			Email: account.Email,
		},
		Store:        storeID,
		Subscription: subscriptionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResult{
		Profile:     profileSummary(account, profile),
		AccessToken: token,
		MaxAge:      s.tokens.MaxAge(),
	}, nil
}

func profileSummary(account *domain.Account, profile *domain.AccountProfile) dto.ProfileSummary {
	return dto.ProfileSummary{
		PaternalSurnames: account.PaternalSurnames,
		MaternalSurnames: account.MaternalSurnames,
		Names:            account.Names,
		Type:             domain.AccountTypeBusiness,
		ProfilePhoto:     profile.ProfilePhoto,
	}
}
