package register

import (
	"net/http"

	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Register, h.handleGet)
	mux.HandleFunc(http.MethodPost+" "+routepath.Register, h.handlePost)
}
