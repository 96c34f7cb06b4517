package assistant

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/crmdesk/internal/platform/requestctx"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"github.com/louisbranch/crmdesk/internal/services/web/session"
	"github.com/louisbranch/crmdesk/internal/services/web/views"
	"go.uber.org/zap"
)

type handlers struct {
	registry *Registry
	policy   requestmeta.SchemePolicy
	logger   *zap.Logger
}

func newHandlers(registry *Registry, policy requestmeta.SchemePolicy, logger *zap.Logger) handlers {
	return handlers{registry: registry, policy: policy, logger: logger}
}

// panel returns the panel of the signed-in principal, or nil when the
// request carries none.
func (h handlers) panel(r *http.Request) *Panel {
	userID := requestctx.UserIDFromContext(r.Context())
	if userID == "" {
		return nil
	}
	return h.registry.Panel(userID)
}

func (h handlers) handlePanel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	panel := h.panel(r)
	if panel == nil {
		httpx.WriteRedirect(w, r, routepath.Login)
		return
	}
	page := views.Page{}
	if principal := session.FromContext(ctx).Principal(); principal != nil {
		page.SignedInAs = principal.DisplayName()
	}
	notice, ok := flash.ReadAndClear(w, r, h.policy)
	page = page.WithFlash(ctx, notice, ok)
	views.Render(w, r, http.StatusOK, assistantPage(ctx, page, panel.Snapshot()))
}

func (h handlers) handleSend(w http.ResponseWriter, r *http.Request) {
	panel := h.panel(r)
	if panel == nil {
		httpx.WriteRedirect(w, r, routepath.Login)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if !panel.Send(r.PostFormValue("message")) {
		h.logger.Debug("ignored blank assistant message", requestctx.Fields(r.Context())...)
	}
	httpx.WriteRedirect(w, r, routepath.AppAssistant)
}

func (h handlers) handlePrompt(w http.ResponseWriter, r *http.Request) {
	panel := h.panel(r)
	if panel == nil {
		httpx.WriteRedirect(w, r, routepath.Login)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	index, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("index")))
	if err != nil {
		http.Error(w, "invalid prompt index", http.StatusBadRequest)
		return
	}
	if _, err := panel.SelectPrompt(index); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	httpx.WriteRedirect(w, r, routepath.AppAssistant)
}
