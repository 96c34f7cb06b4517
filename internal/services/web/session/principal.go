package session

import (
	"encoding/json"
	"maps"

	"github.com/louisbranch/crmdesk/internal/services/crm/profile"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
)

// Principal is the signed-in account merged with its workspace profile.
type Principal struct {
	ID     string
	Email  string
	fields map[string]string
}

// newPrincipal overlays profile fields on the account's own fields.
// Profile values win on key collisions.
func newPrincipal(u user.User, p *profile.Profile) *Principal {
	fields := make(map[string]string, len(u.Metadata)+2)
	maps.Copy(fields, u.Metadata)
	fields["id"] = u.ID
	fields["email"] = u.Email
	if p != nil {
		maps.Copy(fields, p.Fields())
	}
	return &Principal{ID: u.ID, Email: u.Email, fields: fields}
}

// Get returns one merged field.
func (p *Principal) Get(key string) string {
	if p == nil {
		return ""
	}
	return p.fields[key]
}

// Fields returns a copy of every merged field.
func (p *Principal) Fields() map[string]string {
	if p == nil {
		return nil
	}
	return maps.Clone(p.fields)
}

// DisplayName prefers the profile name and falls back to the email.
func (p *Principal) DisplayName() string {
	if p == nil {
		return ""
	}
	first, last := p.fields["first_name"], p.fields["last_name"]
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return p.Email
	}
}

// MarshalJSON renders the merged fields as a flat object.
func (p *Principal) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.fields)
}
