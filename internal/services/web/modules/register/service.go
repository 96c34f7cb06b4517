// Package register serves account registration, including the invitation
// flow where a pending invite fixes the email, company and role.
package register

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/platform/requestctx"
	"github.com/louisbranch/crmdesk/internal/services/crm/company"
	"github.com/louisbranch/crmdesk/internal/services/crm/invite"
	"github.com/louisbranch/crmdesk/internal/services/crm/profile"
	crmstorage "github.com/louisbranch/crmdesk/internal/services/crm/storage"
	"github.com/louisbranch/crmdesk/internal/services/identity"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// SuccessNotice is shown after an account is created.
	SuccessNotice = "Account created! Confirm your email..."
	// RedirectAfter is how long the success page stays before moving to sign-in.
	RedirectAfter = 1500 * time.Millisecond
)

// ErrInviteInvalid blocks registration when an invite token does not
// resolve to a pending invitation.
var ErrInviteInvalid = apperrors.New(apperrors.CodeInviteInvalid, "Invalid or expired invite.")

var tracer = otel.Tracer("github.com/louisbranch/crmdesk/internal/services/web/modules/register")

// Accounts creates identity accounts.
type Accounts interface {
	SignUp(ctx context.Context, input identity.SignUpInput) (user.User, error)
}

// InviteStore reads and settles invitations.
type InviteStore interface {
	GetPendingInviteByToken(ctx context.Context, token string) (invite.Invite, error)
	AcceptInvite(ctx context.Context, inviteID string, acceptedAt time.Time) error
}

// CompanyStore reads companies for invitation display.
type CompanyStore interface {
	GetCompany(ctx context.Context, companyID string) (company.Company, error)
}

// ProfileStore upserts the profile row of a new account.
type ProfileStore interface {
	PutProfile(ctx context.Context, p profile.Profile) error
}

// InviteResolution is the outcome of looking up an invite token.
type InviteResolution struct {
	Token string
	// Present reports whether a token was supplied at all.
	Present bool
	// Invalid is set when a token was supplied but no pending invitation
	// could be loaded for it.
	Invalid     bool
	Invite      *invite.Invite
	CompanyName string
	// Err holds the lookup failure behind Invalid, if any.
	Err error
}

// Form carries the values a visitor submits.
type Form struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Company   string
}

// Result describes a completed registration.
type Result struct {
	UserID        string
	Notice        string
	RedirectTo    string
	RedirectAfter time.Duration
	// InviteAcceptErr is set when the account was created but the invitation
	// could not be marked accepted.
	InviteAcceptErr error
}

// Service resolves invitations and registers accounts.
type Service struct {
	accounts  Accounts
	invites   InviteStore
	companies CompanyStore
	profiles  ProfileStore
	logger    *zap.Logger
	clock     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService builds a registration service.
func NewService(accounts Accounts, invites InviteStore, companies CompanyStore, profiles ProfileStore, logger *zap.Logger, opts ...Option) (*Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("accounts are required")
	}
	if invites == nil {
		return nil, fmt.Errorf("invite store is required")
	}
	s := &Service{
		accounts:  accounts,
		invites:   invites,
		companies: companies,
		profiles:  profiles,
		logger:    logging.OrNop(logger),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ResolveInvite loads the pending invitation behind token. An empty token
// resolves immediately without touching the store.
func (s *Service) ResolveInvite(ctx context.Context, token string) InviteResolution {
	token = strings.TrimSpace(token)
	if token == "" {
		return InviteResolution{}
	}
	ctx, span := tracer.Start(ctx, "register.ResolveInvite")
	defer span.End()

	resolution := InviteResolution{Token: token, Present: true}
	inv, err := s.invites.GetPendingInviteByToken(ctx, token)
	if err != nil {
		resolution.Invalid = true
		resolution.Err = err
		if errors.Is(err, crmstorage.ErrNotFound) {
			span.SetAttributes(attribute.Bool("invite.found", false))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error("resolve invite", append(requestctx.Fields(ctx), zap.Error(err))...)
		}
		return resolution
	}
	resolution.Invite = &inv
	span.SetAttributes(attribute.String("invite.id", inv.ID), attribute.String("company.id", inv.CompanyID))

	if s.companies != nil {
		c, err := s.companies.GetCompany(ctx, inv.CompanyID)
		if err != nil {
			s.logger.Warn("lookup invite company", append(requestctx.Fields(ctx), zap.String("company_id", inv.CompanyID), zap.Error(err))...)
		} else {
			resolution.CompanyName = c.Name
		}
	}
	return resolution
}

// Register creates the account. When the resolution carries an invitation
// its email, company and role replace whatever the form supplied, and the
// invitation is accepted once the account exists.
func (s *Service) Register(ctx context.Context, resolution InviteResolution, form Form) (result Result, err error) {
	if resolution.Invalid {
		return Result{}, ErrInviteInvalid
	}
	ctx, span := tracer.Start(ctx, "register.Register", trace.WithAttributes(attribute.Bool("invite.present", resolution.Invite != nil)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	email := form.Email
	companyID := strings.TrimSpace(form.Company)
	role := invite.DefaultRole
	if inv := resolution.Invite; inv != nil {
		email = inv.Email
		companyID = inv.CompanyID
		role = inv.Role
	}
	firstName := strings.TrimSpace(form.FirstName)
	lastName := strings.TrimSpace(form.LastName)

	u, err := s.accounts.SignUp(ctx, identity.SignUpInput{
		Email:    email,
		Password: form.Password,
		Metadata: map[string]string{
			user.MetaFirstName: firstName,
			user.MetaLastName:  lastName,
			user.MetaCompany:   companyID,
			user.MetaRole:      role,
		},
	})
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(attribute.String("user.id", u.ID))

	result = Result{
		UserID:        u.ID,
		Notice:        SuccessNotice,
		RedirectTo:    routepath.Login,
		RedirectAfter: RedirectAfter,
	}
	now := s.clock().UTC()

	if inv := resolution.Invite; inv != nil {
		if acceptErr := s.invites.AcceptInvite(ctx, inv.ID, now); acceptErr != nil {
			result.InviteAcceptErr = acceptErr
			span.RecordError(acceptErr)
			s.logger.Error("accept invite after signup", append(requestctx.Fields(ctx),
				zap.String("invite_id", inv.ID),
				zap.String("user_id", u.ID),
				zap.Error(acceptErr))...)
		}
	}

	if s.profiles != nil {
		p := profile.Profile{
			UserID:    u.ID,
			FirstName: firstName,
			LastName:  lastName,
			CompanyID: companyID,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.profiles.PutProfile(ctx, p); err != nil {
			s.logger.Warn("create profile after signup", append(requestctx.Fields(ctx), zap.String("user_id", u.ID), zap.Error(err))...)
		}
	}
	return result, nil
}
