// Package auth implements stateless bearer token issuance and verification.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"voxpop/internal/config"
	"voxpop/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService signs and verifies self-contained access tokens. The key,
// algorithm and lifetime are fixed at construction and safe to share across
// concurrent requests. Validity is a function of signature and expiry only;
// there is no server-side session state and no revocation list.
type TokenService struct {
	secret   []byte
	method   jwt.SigningMethod
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenService builds a TokenService from the process configuration.
func NewTokenService(cfg *config.Config) (*TokenService, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.JWTAlgorithm)
	}
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		method:   method,
		lifetime: cfg.TokenLifetime(),
		now:      time.Now,
	}, nil
}

// Issue produces a signed token embedding the subject user ID with an
// absolute expiry of issuance time plus the configured lifetime.
func (s *TokenService) Issue(subject uint) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(subject), 10),
		"exp": now.Add(s.lifetime).Unix(),
		"iat": now.Unix(),
		"jti": uuid.New().String(),
	}

	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature, structure and expiry and returns the embedded
// subject. Every failure surfaces as the same UNAUTHENTICATED error; no
// further trust about the subject's existence is implied.
func (s *TokenService) Verify(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !token.Valid {
		return 0, models.NewUnauthenticatedError()
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthenticatedError()
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, models.NewUnauthenticatedError()
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, models.NewUnauthenticatedError()
	}

	return uint(userID), nil
}
