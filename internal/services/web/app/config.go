package app

import (
	"context"

	"github.com/louisbranch/crmdesk/internal/platform/i18n"
	"github.com/louisbranch/crmdesk/internal/services/web/module"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/crmdesk/internal/services/web/session"
	"go.uber.org/zap"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	PublicModules       []module.Module
	ProtectedModules    []module.Module
	Sessions            *session.Provider
	Bundle              *i18n.Bundle
	Logger              *zap.Logger
	RequestSchemePolicy requestmeta.SchemePolicy
	// Ready reports backend readiness for the health endpoint.
	Ready func(context.Context) error
}
