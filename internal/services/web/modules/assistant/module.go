package assistant

import (
	"fmt"
	"net/http"

	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/services/web/module"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"go.uber.org/zap"
)

// Module provides the authenticated assistant routes.
type Module struct {
	registry *Registry
	policy   requestmeta.SchemePolicy
	logger   *zap.Logger
}

// New returns an assistant module backed by registry.
func New(registry *Registry, policy requestmeta.SchemePolicy, logger *zap.Logger) Module {
	return Module{registry: registry, policy: policy, logger: logging.OrNop(logger)}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "assistant" }

// Mount wires assistant route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.registry == nil {
		return module.Mount{}, fmt.Errorf("assistant registry is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.registry, m.policy, m.logger))
	return module.Mount{
		Paths:   []string{routepath.AppAssistant, routepath.AssistantPrefix},
		Handler: mux,
	}, nil
}
