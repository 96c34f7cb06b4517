// Package profile defines the workspace profile stored per account.
package profile

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
)

// ErrEmptyUserID indicates a profile without an owner.
var ErrEmptyUserID = apperrors.New(apperrors.CodeProfileEmptyUserID, "profile user id is required")

// Field names returned by Fields.
const (
	FieldID        = "id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldCompany   = "company"
	FieldRole      = "role"
)

// Profile holds workspace attributes for one account.
type Profile struct {
	UserID     string
	FirstName  string
	LastName   string
	CompanyID  string
	Role       string
	Attributes map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Normalize trims fields and rejects a missing user id.
func Normalize(p Profile) (Profile, error) {
	p.UserID = strings.TrimSpace(p.UserID)
	if p.UserID == "" {
		return Profile{}, ErrEmptyUserID
	}
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.CompanyID = strings.TrimSpace(p.CompanyID)
	p.Role = strings.TrimSpace(p.Role)
	attrs := make(map[string]string, len(p.Attributes))
	for key, value := range p.Attributes {
		if key = strings.TrimSpace(key); key != "" {
			attrs[key] = value
		}
	}
	p.Attributes = attrs
	return p, nil
}

// Fields flattens the profile into a key/value map. Named columns win over
// attributes with the same key; empty columns are omitted.
func (p Profile) Fields() map[string]string {
	out := make(map[string]string, len(p.Attributes)+5)
	for key, value := range p.Attributes {
		out[key] = value
	}
	set := func(key, value string) {
		if value != "" {
			out[key] = value
		}
	}
	set(FieldID, p.UserID)
	set(FieldFirstName, p.FirstName)
	set(FieldLastName, p.LastName)
	set(FieldCompany, p.CompanyID)
	set(FieldRole, p.Role)
	return out
}
