package register

import (
	"fmt"
	"net/http"

	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/services/web/module"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"go.uber.org/zap"
)

// Module provides the public registration routes.
type Module struct {
	service *Service
	policy  requestmeta.SchemePolicy
	logger  *zap.Logger
}

// New returns a registration module.
func New(service *Service, policy requestmeta.SchemePolicy, logger *zap.Logger) Module {
	return Module{service: service, policy: policy, logger: logging.OrNop(logger)}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "register" }

// Mount wires registration route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.service == nil {
		return module.Mount{}, fmt.Errorf("register service is required")
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.service, m.policy, m.logger))
	return module.Mount{Paths: []string{routepath.Register}, Handler: mux}, nil
}
