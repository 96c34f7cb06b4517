package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/louisbranch/crmdesk/internal/services/crm/profile"
	"github.com/louisbranch/crmdesk/internal/services/crm/storage"
)

// PutProfile inserts or replaces a profile, keeping its original creation time.
func (s *Store) PutProfile(ctx context.Context, p profile.Profile) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := requireID("profile user id", p.UserID); err != nil {
		return err
	}
	attrs := p.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("encode profile attributes: %w", err)
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO profiles (user_id, first_name, last_name, company_id, role, attributes_json, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    first_name = excluded.first_name,
    last_name = excluded.last_name,
    company_id = excluded.company_id,
    role = excluded.role,
    attributes_json = excluded.attributes_json,
    updated_at = excluded.updated_at`,
		p.UserID, p.FirstName, p.LastName, p.CompanyID, p.Role, string(attrsJSON),
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	); err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

// GetProfile fetches the profile of userID.
func (s *Store) GetProfile(ctx context.Context, userID string) (profile.Profile, error) {
	if err := s.ready(ctx); err != nil {
		return profile.Profile{}, err
	}
	if err := requireID("profile user id", userID); err != nil {
		return profile.Profile{}, err
	}
	var (
		p         profile.Profile
		attrsJSON string
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT user_id, first_name, last_name, company_id, role, attributes_json, created_at, updated_at
FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.FirstName, &p.LastName, &p.CompanyID, &p.Role, &attrsJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, storage.ErrNotFound
	}
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if err := json.Unmarshal([]byte(attrsJSON), &p.Attributes); err != nil {
		return profile.Profile{}, fmt.Errorf("decode profile attributes: %w", err)
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}
