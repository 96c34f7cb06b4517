package storage

import (
	"context"
	"time"

	"github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/services/crm/company"
	"github.com/louisbranch/crmdesk/internal/services/crm/filter"
	"github.com/louisbranch/crmdesk/internal/services/crm/invite"
	"github.com/louisbranch/crmdesk/internal/services/crm/profile"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// CompanyStore persists companies.
type CompanyStore interface {
	PutCompany(ctx context.Context, c company.Company) error
	GetCompany(ctx context.Context, companyID string) (company.Company, error)
}

// InviteStore persists invitations.
type InviteStore interface {
	PutInvite(ctx context.Context, inv invite.Invite) error
	GetInvite(ctx context.Context, inviteID string) (invite.Invite, error)
	// GetPendingInviteByToken returns ErrNotFound unless an invitation with
	// token exists and is still pending.
	GetPendingInviteByToken(ctx context.Context, token string) (invite.Invite, error)
	// AcceptInvite moves a pending invitation to accepted. It returns
	// invite.ErrNotPending when the invitation was already settled.
	AcceptInvite(ctx context.Context, inviteID string, acceptedAt time.Time) error
	// RevokeInvite moves a pending invitation to revoked.
	RevokeInvite(ctx context.Context, inviteID string, revokedAt time.Time) error
	ListInvites(ctx context.Context, cond filter.SQLCondition, pageSize int, pageToken string) (InvitePage, error)
}

// InvitePage is one page of invitations ordered by creation.
type InvitePage struct {
	Invites       []invite.Invite
	NextPageToken string
}

// ProfileStore persists profiles.
type ProfileStore interface {
	PutProfile(ctx context.Context, p profile.Profile) error
	GetProfile(ctx context.Context, userID string) (profile.Profile, error)
}

// Store is the full CRM persistence surface.
type Store interface {
	CompanyStore
	InviteStore
	ProfileStore
}
