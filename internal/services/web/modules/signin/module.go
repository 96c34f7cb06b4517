package signin

import (
	"fmt"
	"net/http"

	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/services/web/module"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"go.uber.org/zap"
)

// Module provides public sign-in routes.
type Module struct {
	accounts  Accounts
	policy    requestmeta.SchemePolicy
	logger    *zap.Logger
	signedOut func(userID string)
}

// Option customizes a Module.
type Option func(*Module)

// WithSignOutHook runs fn with the principal id after every sign-out.
func WithSignOutHook(fn func(userID string)) Option {
	return func(m *Module) {
		m.signedOut = fn
	}
}

// New returns a sign-in module.
func New(accounts Accounts, policy requestmeta.SchemePolicy, logger *zap.Logger, opts ...Option) Module {
	m := Module{accounts: accounts, policy: policy, logger: logging.OrNop(logger)}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "signin" }

// Mount wires sign-in route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.accounts == nil {
		return module.Mount{}, fmt.Errorf("signin accounts are required")
	}
	mux := http.NewServeMux()
	h := newHandlers(m.accounts, m.policy, m.logger)
	h.signedOut = m.signedOut
	registerRoutes(mux, h)
	return module.Mount{
		Paths:   []string{routepath.Login, routepath.Logout, routepath.AuthConfirm},
		Handler: mux,
	}, nil
}
