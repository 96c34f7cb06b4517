// Package token issues and verifies HS256 access tokens bound to a session.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
)

var (
	// ErrInvalid indicates a malformed, forged or incomplete token.
	ErrInvalid = apperrors.New(apperrors.CodeTokenInvalid, "invalid access token")
	// ErrExpired indicates a token past its expiry.
	ErrExpired = apperrors.New(apperrors.CodeTokenExpired, "access token expired")
)

// Claims carried by an access token.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	Email     string `json:"email,omitempty"`
}

// Manager signs and verifies access tokens.
type Manager struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager builds a Manager. The key must be at least 32 bytes.
func NewManager(key []byte, issuer string, ttl time.Duration, now func() time.Time) (*Manager, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("signing key must be at least 32 bytes")
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, fmt.Errorf("issuer is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{key: append([]byte(nil), key...), issuer: issuer, ttl: ttl, now: now}, nil
}

// TTL returns the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for userID bound to sessionID.
func (m *Manager) Issue(userID, sessionID, email string) (string, time.Time, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(sessionID) == "" {
		return "", time.Time{}, fmt.Errorf("user id and session id are required")
	}
	issuedAt := m.now().UTC()
	expiresAt := issuedAt.Add(m.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		SessionID: sessionID,
		Email:     email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses raw and returns its claims.
func (m *Manager) Verify(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, ErrInvalid
	}
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, apperrors.Wrap(apperrors.CodeTokenExpired, ErrExpired.Message, err)
		}
		return Claims{}, apperrors.Wrap(apperrors.CodeTokenInvalid, ErrInvalid.Message, err)
	}
	if !parsed.Valid || claims.Subject == "" || claims.SessionID == "" {
		return Claims{}, ErrInvalid
	}
	return claims, nil
}
