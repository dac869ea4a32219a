// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase/interfaces"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNoSecret     = errors.New("jwt secret not configured")
)

const issuer = "portal-orcamentos"

// Claims is the JWT payload carried by a session.
type Claims struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

var _ interfaces.ITokenIssuer = (*TokenService)(nil)

func NewTokenService(secret string, ttl time.Duration, clk clock.Clock) (*TokenService, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, clock: clk}, nil
}

func (s *TokenService) Issue(actor entities.Actor) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		Sub:   actor.ID,
		Name:  actor.Name,
		Email: actor.Email,
		Role:  string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the token and returns the actor it was issued for.
func (s *TokenService) Parse(token string) (entities.Actor, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return entities.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Sub == "" || !entities.Role(claims.Role).Valid() {
		return entities.Actor{}, ErrInvalidToken
	}
	return entities.Actor{
		ID:    claims.Sub,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  entities.Role(claims.Role),
	}, nil
}
