package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/crmdesk/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/crmdesk/internal/services/identity/storage"
	"github.com/louisbranch/crmdesk/internal/services/identity/storage/sqlite/migrations"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func timePtr(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

// Store implements identity persistence over SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens an identity SQLite store and applies bundled migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	sqlDB, err := sqlitemigrate.Open(ctx, path, migrations.FS)
	if err != nil {
		return nil, err
	}
	return &Store{sqlDB: sqlDB}, nil
}

// DB returns the raw database handle.
func (s *Store) DB() *sql.DB {
	if s == nil {
		return nil
	}
	return s.sqlDB
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// PutUser inserts or updates an account.
func (s *Store) PutUser(ctx context.Context, u user.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}
	metadata := u.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode user metadata: %w", err)
	}
	var confirmationToken sql.NullString
	if u.ConfirmationToken != "" {
		confirmationToken = sql.NullString{String: u.ConfirmationToken, Valid: true}
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO users (id, email, password_hash, metadata_json, confirmation_token, confirmed_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    email = excluded.email,
    password_hash = excluded.password_hash,
    metadata_json = excluded.metadata_json,
    confirmation_token = excluded.confirmation_token,
    confirmed_at = excluded.confirmed_at,
    updated_at = excluded.updated_at`,
		u.ID,
		u.Email,
		u.PasswordHash,
		string(metadataJSON),
		confirmationToken,
		nullMillis(u.ConfirmedAt),
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return user.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

const userColumns = `id, email, password_hash, metadata_json, confirmation_token, confirmed_at, created_at, updated_at`

// GetUser fetches an account by id.
func (s *Store) GetUser(ctx context.Context, userID string) (user.User, error) {
	return s.getUserWhere(ctx, "id", userID)
}

// GetUserByEmail fetches an account by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.getUserWhere(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByConfirmationToken fetches the account holding an unused confirmation token.
func (s *Store) GetUserByConfirmationToken(ctx context.Context, token string) (user.User, error) {
	return s.getUserWhere(ctx, "confirmation_token", token)
}

func (s *Store) getUserWhere(ctx context.Context, column, value string) (user.User, error) {
	if err := s.ready(ctx); err != nil {
		return user.User{}, err
	}
	if strings.TrimSpace(value) == "" {
		return user.User{}, fmt.Errorf("%s is required", column)
	}

	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value)
	var (
		u                 user.User
		metadataJSON      string
		confirmationToken sql.NullString
		confirmedAt       sql.NullInt64
		createdAt         int64
		updatedAt         int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &metadataJSON, &confirmationToken, &confirmedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, storage.ErrNotFound
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &u.Metadata); err != nil {
		return user.User{}, fmt.Errorf("decode user metadata: %w", err)
	}
	u.ConfirmationToken = confirmationToken.String
	u.ConfirmedAt = timePtr(confirmedAt)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

// ConfirmUser marks the account email confirmed and burns its confirmation token.
func (s *Store) ConfirmUser(ctx context.Context, userID string, confirmedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE users SET confirmed_at = ?, confirmation_token = NULL, updated_at = ?
WHERE id = ?`, toMillis(confirmedAt), toMillis(confirmedAt), userID)
	if err != nil {
		return fmt.Errorf("confirm user: %w", err)
	}
	return requireRow(res)
}

// PutSession stores a new session.
func (s *Store) PutSession(ctx context.Context, session storage.Session) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(session.ID) == "" || strings.TrimSpace(session.UserID) == "" {
		return fmt.Errorf("session id and user id are required")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, created_at, expires_at, revoked_at) VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		toMillis(session.CreatedAt),
		toMillis(session.ExpiresAt),
		nullMillis(session.RevokedAt),
	); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// GetSession fetches a session by id.
func (s *Store) GetSession(ctx context.Context, sessionID string) (storage.Session, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Session{}, err
	}
	if strings.TrimSpace(sessionID) == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}
	var (
		session   storage.Session
		createdAt int64
		expiresAt int64
		revokedAt sql.NullInt64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, user_id, created_at, expires_at, revoked_at FROM sessions WHERE id = ?`, sessionID,
	).Scan(&session.ID, &session.UserID, &createdAt, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Session{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = fromMillis(createdAt)
	session.ExpiresAt = fromMillis(expiresAt)
	session.RevokedAt = timePtr(revokedAt)
	return session, nil
}

// RevokeSession marks a session revoked. Revoking twice keeps the first timestamp.
func (s *Store) RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE sessions SET revoked_at = COALESCE(revoked_at, ?) WHERE id = ?`, toMillis(revokedAt), sessionID)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
