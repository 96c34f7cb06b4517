package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/crmdesk/internal/platform/id"
	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/platform/pagination"
	"github.com/louisbranch/crmdesk/internal/services/crm/company"
	"github.com/louisbranch/crmdesk/internal/services/crm/filter"
	"github.com/louisbranch/crmdesk/internal/services/crm/invite"
	"github.com/louisbranch/crmdesk/internal/services/crm/storage"
	"go.uber.org/zap"
)

var invitePageSize = pagination.PageSizeConfig{Default: 50, Max: 200}

// Service implements company and invitation administration.
type Service struct {
	store          storage.Store
	logger         *zap.Logger
	clock          func() time.Time
	idGenerator    func() (string, error)
	tokenGenerator func() (string, error)
}

// NewService builds a Service over store.
func NewService(store storage.Store, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("crm store is required")
	}
	return &Service{
		store:          store,
		logger:         logging.OrNop(logger),
		clock:          time.Now,
		idGenerator:    id.NewID,
		tokenGenerator: id.NewToken,
	}, nil
}

// CreateCompany stores a new company.
func (s *Service) CreateCompany(ctx context.Context, input company.CreateCompanyInput) (company.Company, error) {
	c, err := company.CreateCompany(input, s.clock, s.idGenerator)
	if err != nil {
		return company.Company{}, err
	}
	if err := s.store.PutCompany(ctx, c); err != nil {
		return company.Company{}, fmt.Errorf("put company: %w", err)
	}
	s.logger.Info("company created", zap.String("company_id", c.ID))
	return c, nil
}

// CreateInvite stores a pending invitation for an existing company.
func (s *Service) CreateInvite(ctx context.Context, input invite.CreateInviteInput) (invite.Invite, error) {
	return s.createInvite(ctx, input, s.tokenGenerator)
}

// ImportInvite stores a pending invitation with a caller-chosen token, as
// fixture files do. An empty token falls back to a generated one.
func (s *Service) ImportInvite(ctx context.Context, input invite.CreateInviteInput, token string) (invite.Invite, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return s.createInvite(ctx, input, s.tokenGenerator)
	}
	if _, err := s.store.GetPendingInviteByToken(ctx, token); err == nil {
		return invite.Invite{}, fmt.Errorf("invite token %q is already pending", token)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return invite.Invite{}, fmt.Errorf("check invite token: %w", err)
	}
	return s.createInvite(ctx, input, func() (string, error) { return token, nil })
}

func (s *Service) createInvite(ctx context.Context, input invite.CreateInviteInput, tokenGenerator func() (string, error)) (invite.Invite, error) {
	inv, err := invite.CreateInvite(input, s.clock, s.idGenerator, tokenGenerator)
	if err != nil {
		return invite.Invite{}, err
	}
	if _, err := s.store.GetCompany(ctx, inv.CompanyID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return invite.Invite{}, fmt.Errorf("company %s: %w", inv.CompanyID, err)
		}
		return invite.Invite{}, fmt.Errorf("get company: %w", err)
	}
	if err := s.store.PutInvite(ctx, inv); err != nil {
		return invite.Invite{}, fmt.Errorf("put invite: %w", err)
	}
	s.logger.Info("invite created",
		zap.String("invite_id", inv.ID),
		zap.String("company_id", inv.CompanyID),
		zap.String("role", inv.Role),
	)
	return inv, nil
}

// RevokeInvite revokes a pending invitation.
func (s *Service) RevokeInvite(ctx context.Context, inviteID string) error {
	if err := s.store.RevokeInvite(ctx, inviteID, s.clock().UTC()); err != nil {
		return err
	}
	s.logger.Info("invite revoked", zap.String("invite_id", inviteID))
	return nil
}

// ListInvites returns one page of invitations matching an AIP-160 filter.
func (s *Service) ListInvites(ctx context.Context, filterStr string, pageSize int, pageToken string) (storage.InvitePage, error) {
	cond, err := filter.ParseInviteFilter(filterStr)
	if err != nil {
		return storage.InvitePage{}, err
	}
	return s.store.ListInvites(ctx, cond, pagination.ClampPageSize(pageSize, invitePageSize), pageToken)
}
