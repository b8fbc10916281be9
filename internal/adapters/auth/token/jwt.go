// Package token emite y verifica los JWT de sesión (HS256).
package token

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"pet-adoption/internal/domain/accounts"
	"pet-adoption/internal/ports/auth"
)

var (
	ErrTokenEmpty     = errors.New("token is empty")
	ErrMissingSubject = errors.New("token missing subject")
)

type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func New(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

type jwtClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var (
	_ accounts.TokenIssuer = (*Manager)(nil)
	_ auth.AuthVerifier    = (*Manager)(nil)
)

func (m *Manager) Issue(_ context.Context, u accounts.User) (string, time.Time, error) {
	now := m.now().UTC()
	exp := now.Add(m.ttl)

	cl := jwtClaims{
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return signed, exp, nil
}

// Verify valida firma, expiración y emisor.
func (m *Manager) Verify(_ context.Context, raw string) (auth.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var out jwtClaims
	tkn, err := jwt.ParseWithClaims(raw, &out, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return auth.Claims{}, errors.Wrap(err, "verify token")
	}
	if !tkn.Valid {
		return auth.Claims{}, jwt.ErrTokenInvalidClaims
	}
	if strings.TrimSpace(out.Subject) == "" {
		return auth.Claims{}, ErrMissingSubject
	}

	return auth.Claims{
		UserID: out.Subject,
		Email:  out.Email,
		Name:   out.Name,
		Role:   out.Role,
	}, nil
}
