package storage

import (
	"context"
	"time"

	"github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// UserStore persists accounts.
//
// PutUser returns user.ErrEmailTaken when the email already belongs to
// another account.
type UserStore interface {
	PutUser(ctx context.Context, u user.User) error
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	GetUserByConfirmationToken(ctx context.Context, token string) (user.User, error)
	ConfirmUser(ctx context.Context, userID string, confirmedAt time.Time) error
}

// Session is a signed-in browser session.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session can still authenticate requests at now.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// SessionStore persists sessions.
type SessionStore interface {
	PutSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
	RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error
}

// Store is the full identity persistence surface.
type Store interface {
	UserStore
	SessionStore
}
