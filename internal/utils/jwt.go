package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prperemyshlev/connect-service/internal/domain"
)

// ErrMissingSession is returned for verified tokens without a session claim
var ErrMissingSession = errors.New("token has no session claim")

// AccessClaims is the full claim set of an access token
type AccessClaims struct {
	domain.TokenPayload
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access tokens
type TokenManager struct {
	secret   []byte
	expiry   time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokenManager creates a new token manager
func NewTokenManager(secret string, expiry time.Duration, issuer, audience string) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		expiry:   expiry,
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// Generate signs a new access token for payload
func (m *TokenManager) Generate(payload domain.TokenPayload) (string, error) {
	now := m.now()
	claims := AccessClaims{
		TokenPayload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate verifies signature, issuer, audience and expiry and returns the claims
func (m *TokenManager) Validate(tokenString string) (*AccessClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.Session == "" {
		return nil, ErrMissingSession
	}

	return claims, nil
}

// MaxAge returns the token lifetime in seconds
func (m *TokenManager) MaxAge() int {
	return int(m.expiry.Seconds())
}
