package assistant

import (
	"net/http"

	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.AppAssistant, h.handlePanel)
	mux.HandleFunc(http.MethodPost+" "+routepath.AssistantSend, h.handleSend)
	mux.HandleFunc(http.MethodPost+" "+routepath.AssistantPrompt, h.handlePrompt)
}
