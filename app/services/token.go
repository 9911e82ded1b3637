package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ezalahmad/account-service/app/models"
)

var (
	// ErrMalformed reports a token string that does not parse at all.
	ErrMalformed = errors.New("services: malformed token")
	// ErrInvalidSignature reports a token whose signature does not verify
	// against the configured secret.
	ErrInvalidSignature = errors.New("services: invalid token signature")
	// ErrExpired reports a token past its expiry claim. Only tokens issued
	// with a configured TTL carry one.
	ErrExpired = errors.New("services: token expired")
)

// Claims is the identity snapshot embedded in a verification token at issue
// time. Validation decodes exactly this; it does not re-read storage.
type Claims struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	Active   bool        `json:"active"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256-signed verification tokens. The
// secret is process-wide configuration handed in at construction; tokens are
// stateless and self-contained.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService. ttl == 0 issues tokens without an
// expiry claim, matching links that must stay valid until used.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a compact token carrying the given identity claims.
func (s *TokenService) Issue(username, email string, role models.Role, active bool) (string, error) {
	claims := Claims{
		Username: username,
		Email:    email,
		Role:     role,
		Active:   active,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies the signature and decodes the embedded claims.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrInvalidSignature
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
