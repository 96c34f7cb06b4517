// Package invite defines company invitations and their lifecycle.
//
// An invitation starts pending and moves exactly once, either to accepted when
// the invitee finishes registration or to revoked by an administrator.
package invite

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/platform/id"
)

// Status is the persisted lifecycle label of an invitation.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRevoked  Status = "revoked"
)

// DefaultRole is granted when an invitation names no role.
const DefaultRole = "member"

var (
	// ErrEmptyEmail indicates an invitation without an invitee.
	ErrEmptyEmail = apperrors.New(apperrors.CodeInviteEmptyEmail, "invite email is required")
	// ErrInvalidEmail indicates a malformed invitee address.
	ErrInvalidEmail = apperrors.New(apperrors.CodeInviteInvalidEmail, "invite email is invalid")
	// ErrEmptyCompanyID indicates an invitation without a company.
	ErrEmptyCompanyID = apperrors.New(apperrors.CodeInviteEmptyCompanyID, "invite company is required")
	// ErrInvalidRole indicates a malformed role label.
	ErrInvalidRole = apperrors.New(apperrors.CodeInviteInvalidRole, "invite role must be 1-32 lowercase letters, digits, dashes or underscores")
	// ErrNotPending indicates a transition attempted on a settled invitation.
	ErrNotPending = apperrors.New(apperrors.CodeInviteNotPending, "invite is no longer pending")

	rolePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)
)

// ParseStatus maps a stored label to a Status.
func ParseStatus(raw string) (Status, bool) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusAccepted, StatusRevoked:
		return s, true
	default:
		return "", false
	}
}

// Invite is an invitation for one email address to join a company.
type Invite struct {
	ID         string
	Token      string
	Email      string
	CompanyID  string
	Role       string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
	AcceptedAt *time.Time
}

// Pending reports whether the invitation can still be used.
func (i Invite) Pending() bool {
	return i.Status == StatusPending
}

// CreateInviteInput describes a new invitation.
type CreateInviteInput struct {
	Email     string
	CompanyID string
	Role      string
}

// CreateInvite validates input and builds a pending invitation.
func CreateInvite(input CreateInviteInput, now func() time.Time, idGenerator, tokenGenerator func() (string, error)) (Invite, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	if tokenGenerator == nil {
		tokenGenerator = id.NewToken
	}

	normalized, err := NormalizeCreateInviteInput(input)
	if err != nil {
		return Invite{}, err
	}
	inviteID, err := idGenerator()
	if err != nil {
		return Invite{}, fmt.Errorf("generate invite id: %w", err)
	}
	token, err := tokenGenerator()
	if err != nil {
		return Invite{}, fmt.Errorf("generate invite token: %w", err)
	}

	createdAt := now().UTC()
	return Invite{
		ID:        inviteID,
		Token:     token,
		Email:     normalized.Email,
		CompanyID: normalized.CompanyID,
		Role:      normalized.Role,
		Status:    StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// NormalizeCreateInviteInput trims, lowercases and validates input.
func NormalizeCreateInviteInput(input CreateInviteInput) (CreateInviteInput, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" {
		return CreateInviteInput{}, ErrEmptyEmail
	}
	if addr, err := mail.ParseAddress(input.Email); err != nil || addr.Address != input.Email {
		return CreateInviteInput{}, ErrInvalidEmail
	}
	input.CompanyID = strings.TrimSpace(input.CompanyID)
	if input.CompanyID == "" {
		return CreateInviteInput{}, ErrEmptyCompanyID
	}
	role, err := NormalizeRole(input.Role)
	if err != nil {
		return CreateInviteInput{}, err
	}
	input.Role = role
	return input, nil
}

// NormalizeRole lowercases role and substitutes DefaultRole for blanks.
func NormalizeRole(raw string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(raw))
	if role == "" {
		return DefaultRole, nil
	}
	if !rolePattern.MatchString(role) {
		return "", ErrInvalidRole
	}
	return role, nil
}

// Accept moves a pending invitation to accepted.
func (i Invite) Accept(now time.Time) (Invite, error) {
	if !i.Pending() {
		return i, ErrNotPending
	}
	at := now.UTC()
	i.Status = StatusAccepted
	i.AcceptedAt = &at
	i.UpdatedAt = at
	return i, nil
}

// Revoke moves a pending invitation to revoked.
func (i Invite) Revoke(now time.Time) (Invite, error) {
	if !i.Pending() {
		return i, ErrNotPending
	}
	i.Status = StatusRevoked
	i.UpdatedAt = now.UTC()
	return i, nil
}
