// Package company defines the tenant organization record.
package company

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/platform/id"
)

// ErrEmptyName indicates a company without a name.
var ErrEmptyName = apperrors.New(apperrors.CodeCompanyEmptyName, "company name is required")

// Company is an organization users belong to.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCompanyInput describes a new company.
type CreateCompanyInput struct {
	Name string
}

// CreateCompany validates input and builds a company record.
func CreateCompany(input CreateCompanyInput, now func() time.Time, idGenerator func() (string, error)) (Company, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Company{}, ErrEmptyName
	}
	companyID, err := idGenerator()
	if err != nil {
		return Company{}, fmt.Errorf("generate company id: %w", err)
	}
	createdAt := now().UTC()
	return Company{ID: companyID, Name: name, CreatedAt: createdAt, UpdatedAt: createdAt}, nil
}
