package session

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/platform/requestctx"
	"github.com/louisbranch/crmdesk/internal/platform/timeouts"
	"github.com/louisbranch/crmdesk/internal/services/crm/profile"
	crmstorage "github.com/louisbranch/crmdesk/internal/services/crm/storage"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/louisbranch/crmdesk/internal/services/web/session")

// Identity resolves an access token to its account.
type Identity interface {
	GetPrincipal(ctx context.Context, accessToken string) (user.User, error)
}

// Profiles looks up workspace profiles.
type Profiles interface {
	GetProfile(ctx context.Context, userID string) (profile.Profile, error)
}

// Provider resolves sessions against the identity service and profile store.
type Provider struct {
	identity Identity
	profiles Profiles
	logger   *zap.Logger
	timeout  time.Duration
}

// NewProvider builds a Provider. profiles may be nil, in which case principals
// carry account fields only.
func NewProvider(identity Identity, profiles Profiles, logger *zap.Logger) *Provider {
	return &Provider{
		identity: identity,
		profiles: profiles,
		logger:   logging.OrNop(logger),
		timeout:  timeouts.Backend,
	}
}

// Resolve starts resolving accessToken and returns immediately. The returned
// State settles when the lookups finish or ctx ends.
func (p *Provider) Resolve(ctx context.Context, accessToken string) *State {
	state := newState()
	accessToken = strings.TrimSpace(accessToken)
	if p == nil || p.identity == nil || accessToken == "" {
		state.settle(nil)
		return state
	}
	go func() {
		state.settle(p.lookup(ctx, accessToken))
	}()
	return state
}

func (p *Provider) lookup(ctx context.Context, accessToken string) *Principal {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "session.Resolve")
	defer span.End()

	u, err := p.identity.GetPrincipal(ctx, accessToken)
	if err != nil {
		switch apperrors.CodeOf(err) {
		case apperrors.CodeTokenInvalid, apperrors.CodeTokenExpired, apperrors.CodeSessionRevoked:
			p.logger.Debug("session not authenticated", append(requestctx.Fields(ctx), zap.Error(err))...)
		default:
			span.RecordError(err)
			p.logger.Warn("resolve session principal", append(requestctx.Fields(ctx), zap.Error(err))...)
		}
		return nil
	}
	span.SetAttributes(attribute.String("user.id", u.ID))

	if p.profiles == nil {
		return newPrincipal(u, nil)
	}
	prof, err := p.profiles.GetProfile(ctx, u.ID)
	if err != nil {
		if !errors.Is(err, crmstorage.ErrNotFound) {
			span.RecordError(err)
			p.logger.Warn("load session profile", append(requestctx.Fields(ctx), zap.String("user_id", u.ID), zap.Error(err))...)
		}
		return newPrincipal(u, nil)
	}
	return newPrincipal(u, &prof)
}
