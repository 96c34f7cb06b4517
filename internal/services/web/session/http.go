package session

import (
	"net/http"

	"github.com/louisbranch/crmdesk/internal/platform/requestctx"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/sessioncookie"
)

// LoginPath is where anonymous visitors of protected pages are sent.
const LoginPath = "/login"

// Middleware starts session resolution for every request and stores the
// State on the request context.
func Middleware(provider *Provider) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _ := sessioncookie.Read(r)
			state := provider.Resolve(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(WithState(r.Context(), state)))
		})
	}
}

// RequireAuth waits for the session and redirects anonymous requests to the
// login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := FromContext(r.Context())
		if err := state.Wait(r.Context()); err != nil {
			return
		}
		principal := state.Principal()
		if principal == nil {
			httpx.WriteRedirect(w, r, LoginPath)
			return
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithUserID(r.Context(), principal.ID)))
	})
}

// Handler serves the current session as JSON once it settles.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := FromContext(r.Context())
		if err := state.Wait(r.Context()); err != nil {
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		_ = httpx.WriteJSON(w, http.StatusOK, state.Snapshot())
	})
}
