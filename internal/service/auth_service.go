package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultTokenTTL = 12 * time.Hour

	// AnonymousOperator signs audits when token checks are disabled.
	AnonymousOperator = "anonymous"
)

// Domain errors for auth flows.
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrEmptyOperator = errors.New("operator name is empty")
	ErrAuthDisabled  = errors.New("token signing is disabled: no signing key configured")
)

// AuthService signs operator tokens. The token subject becomes the audit's created_by.
type AuthService struct {
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewAuthService(signingKey string, ttl time.Duration, now func() time.Time) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{signingKey: []byte(signingKey), ttl: ttl, now: now}
}

func (s *AuthService) Enabled() bool { return len(s.signingKey) > 0 }

// IssueToken returns a signed JWT for operator.
func (s *AuthService) IssueToken(operator string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return "", ErrEmptyOperator
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   operator,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	return token.SignedString(s.signingKey)
}

// ParseToken validates accessToken and returns the operator it was issued to.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
