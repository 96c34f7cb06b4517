package app

import (
	"fmt"
	"net/http"

	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/platform/requestctx"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"github.com/louisbranch/crmdesk/internal/services/web/session"
	"github.com/louisbranch/crmdesk/internal/services/web/views"
	"go.uber.org/zap"
)

// BuildRootHandler composes modules with the platform routes and the
// request middleware chain.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session provider is required")
	}
	if cfg.Bundle == nil {
		return nil, fmt.Errorf("i18n bundle is required")
	}
	logger := logging.OrNop(cfg.Logger)

	root := http.NewServeMux()
	if err := Compose(root, ComposeInput{
		PublicModules:    cfg.PublicModules,
		ProtectedModules: cfg.ProtectedModules,
	}); err != nil {
		return nil, err
	}
	root.Handle(http.MethodGet+" "+routepath.APISession, session.Handler())
	root.HandleFunc(http.MethodGet+" "+routepath.Health, healthHandler(cfg, logger))
	root.HandleFunc(http.MethodGet+" /{$}", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteRedirect(w, r, routepath.AppAssistant)
	})

	return httpx.Chain(root,
		httpx.RequestID(),
		httpx.AccessLog(logger),
		httpx.RecoverPanic(logger),
		httpx.RequireSameOrigin(cfg.RequestSchemePolicy),
		views.Localize(cfg.Bundle),
		session.Middleware(cfg.Sessions),
	), nil
}

func healthHandler(cfg Config, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		if cfg.Ready != nil {
			if err := cfg.Ready(r.Context()); err != nil {
				logger.Warn("health check", append(requestctx.Fields(r.Context()), zap.Error(err))...)
				status["status"] = "unavailable"
				code = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Cache-Control", "no-store")
		_ = httpx.WriteJSON(w, code, status)
	}
}
