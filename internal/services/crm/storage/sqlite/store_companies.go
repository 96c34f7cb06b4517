package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/louisbranch/crmdesk/internal/services/crm/company"
	"github.com/louisbranch/crmdesk/internal/services/crm/storage"
)

// PutCompany inserts or renames a company.
func (s *Store) PutCompany(ctx context.Context, c company.Company) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := requireID("company id", c.ID); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO companies (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		c.ID, c.Name, toMillis(c.CreatedAt), toMillis(c.UpdatedAt),
	); err != nil {
		return fmt.Errorf("put company: %w", err)
	}
	return nil
}

// GetCompany fetches a company by id.
func (s *Store) GetCompany(ctx context.Context, companyID string) (company.Company, error) {
	if err := s.ready(ctx); err != nil {
		return company.Company{}, err
	}
	if err := requireID("company id", companyID); err != nil {
		return company.Company{}, err
	}
	var (
		c         company.Company
		createdAt int64
		updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `SELECT id, name, created_at, updated_at FROM companies WHERE id = ?`, companyID).
		Scan(&c.ID, &c.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return company.Company{}, storage.ErrNotFound
	}
	if err != nil {
		return company.Company{}, fmt.Errorf("get company: %w", err)
	}
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}
