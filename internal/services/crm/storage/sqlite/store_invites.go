package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/crmdesk/internal/platform/pagination"
	"github.com/louisbranch/crmdesk/internal/services/crm/filter"
	"github.com/louisbranch/crmdesk/internal/services/crm/invite"
	"github.com/louisbranch/crmdesk/internal/services/crm/storage"
)

const inviteColumns = `id, token, email, company_id, role, status, created_at, updated_at, accepted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvite(row rowScanner) (invite.Invite, error) {
	var (
		inv        invite.Invite
		status     string
		createdAt  int64
		updatedAt  int64
		acceptedAt sql.NullInt64
	)
	if err := row.Scan(&inv.ID, &inv.Token, &inv.Email, &inv.CompanyID, &inv.Role, &status, &createdAt, &updatedAt, &acceptedAt); err != nil {
		return invite.Invite{}, err
	}
	parsed, ok := invite.ParseStatus(status)
	if !ok {
		return invite.Invite{}, fmt.Errorf("invite %s has unknown status %q", inv.ID, status)
	}
	inv.Status = parsed
	inv.CreatedAt = fromMillis(createdAt)
	inv.UpdatedAt = fromMillis(updatedAt)
	inv.AcceptedAt = timePtr(acceptedAt)
	return inv, nil
}

// PutInvite inserts or replaces an invitation.
func (s *Store) PutInvite(ctx context.Context, inv invite.Invite) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := requireID("invite id", inv.ID); err != nil {
		return err
	}
	if err := requireID("invite token", inv.Token); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO invites (`+inviteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    email = excluded.email,
    company_id = excluded.company_id,
    role = excluded.role,
    status = excluded.status,
    updated_at = excluded.updated_at,
    accepted_at = excluded.accepted_at`,
		inv.ID,
		inv.Token,
		inv.Email,
		inv.CompanyID,
		inv.Role,
		string(inv.Status),
		toMillis(inv.CreatedAt),
		toMillis(inv.UpdatedAt),
		nullMillis(inv.AcceptedAt),
	); err != nil {
		return fmt.Errorf("put invite: %w", err)
	}
	return nil
}

// GetInvite fetches an invitation by id regardless of status.
func (s *Store) GetInvite(ctx context.Context, inviteID string) (invite.Invite, error) {
	if err := s.ready(ctx); err != nil {
		return invite.Invite{}, err
	}
	if err := requireID("invite id", inviteID); err != nil {
		return invite.Invite{}, err
	}
	inv, err := scanInvite(s.sqlDB.QueryRowContext(ctx, `SELECT `+inviteColumns+` FROM invites WHERE id = ?`, inviteID))
	if errors.Is(err, sql.ErrNoRows) {
		return invite.Invite{}, storage.ErrNotFound
	}
	if err != nil {
		return invite.Invite{}, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

// GetPendingInviteByToken fetches a pending invitation by token.
func (s *Store) GetPendingInviteByToken(ctx context.Context, token string) (invite.Invite, error) {
	if err := s.ready(ctx); err != nil {
		return invite.Invite{}, err
	}
	if err := requireID("invite token", token); err != nil {
		return invite.Invite{}, err
	}
	inv, err := scanInvite(s.sqlDB.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token = ? AND status = ?`, token, string(invite.StatusPending)))
	if errors.Is(err, sql.ErrNoRows) {
		return invite.Invite{}, storage.ErrNotFound
	}
	if err != nil {
		return invite.Invite{}, fmt.Errorf("get invite by token: %w", err)
	}
	return inv, nil
}

// AcceptInvite settles a pending invitation as accepted.
func (s *Store) AcceptInvite(ctx context.Context, inviteID string, acceptedAt time.Time) error {
	return s.settleInvite(ctx, inviteID, invite.StatusAccepted, acceptedAt)
}

// RevokeInvite settles a pending invitation as revoked.
func (s *Store) RevokeInvite(ctx context.Context, inviteID string, revokedAt time.Time) error {
	return s.settleInvite(ctx, inviteID, invite.StatusRevoked, revokedAt)
}

// settleInvite applies a pending -> status transition with a conditional
// update so concurrent callers cannot both succeed.
func (s *Store) settleInvite(ctx context.Context, inviteID string, status invite.Status, at time.Time) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := requireID("invite id", inviteID); err != nil {
		return err
	}
	var acceptedAt sql.NullInt64
	if status == invite.StatusAccepted {
		acceptedAt = sql.NullInt64{Int64: toMillis(at), Valid: true}
	}
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE invites SET status = ?, updated_at = ?, accepted_at = COALESCE(?, accepted_at)
WHERE id = ? AND status = ?`,
		string(status), toMillis(at), acceptedAt, inviteID, string(invite.StatusPending))
	if err != nil {
		return fmt.Errorf("update invite status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 1 {
		return nil
	}
	if _, err := s.GetInvite(ctx, inviteID); err != nil {
		return err
	}
	return invite.ErrNotPending
}

// ListInvites returns invitations matching cond, oldest first.
func (s *Store) ListInvites(ctx context.Context, cond filter.SQLCondition, pageSize int, pageToken string) (storage.InvitePage, error) {
	if err := s.ready(ctx); err != nil {
		return storage.InvitePage{}, err
	}
	if pageSize <= 0 {
		return storage.InvitePage{}, fmt.Errorf("page size must be positive")
	}

	var (
		where  []string
		params []any
	)
	if !cond.Empty() {
		where = append(where, cond.Clause)
		params = append(params, cond.Params...)
	}
	if pageToken != "" {
		createdAt, id, err := decodeInviteCursor(pageToken)
		if err != nil {
			return storage.InvitePage{}, err
		}
		where = append(where, "(created_at > ? OR (created_at = ? AND id > ?))")
		params = append(params, createdAt, createdAt, id)
	}

	query := `SELECT ` + inviteColumns + ` FROM invites`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id LIMIT ?`
	params = append(params, pageSize+1)

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return storage.InvitePage{}, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	var page storage.InvitePage
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return storage.InvitePage{}, fmt.Errorf("scan invite: %w", err)
		}
		page.Invites = append(page.Invites, inv)
	}
	if err := rows.Err(); err != nil {
		return storage.InvitePage{}, fmt.Errorf("iterate invites: %w", err)
	}

	if len(page.Invites) > pageSize {
		page.Invites = page.Invites[:pageSize]
		last := page.Invites[pageSize-1]
		page.NextPageToken = pagination.EncodeCursor(strconv.FormatInt(toMillis(last.CreatedAt), 10) + ":" + last.ID)
	}
	return page, nil
}

func decodeInviteCursor(token string) (int64, string, error) {
	key, err := pagination.DecodeCursor(token)
	if err != nil {
		return 0, "", err
	}
	millis, id, ok := strings.Cut(key, ":")
	if !ok || id == "" {
		return 0, "", fmt.Errorf("invalid page token")
	}
	createdAt, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid page token: %w", err)
	}
	return createdAt, id, nil
}
