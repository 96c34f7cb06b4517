package signin

import (
	"net/http"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/platform/requestctx"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"github.com/louisbranch/crmdesk/internal/services/web/session"
	"github.com/louisbranch/crmdesk/internal/services/web/views"
	"go.uber.org/zap"
)

type handlers struct {
	accounts  Accounts
	policy    requestmeta.SchemePolicy
	logger    *zap.Logger
	home      string
	signedOut func(userID string)
}

func newHandlers(accounts Accounts, policy requestmeta.SchemePolicy, logger *zap.Logger) handlers {
	return handlers{accounts: accounts, policy: policy, logger: logger, home: routepath.AppAssistant}
}

func (h handlers) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := session.FromContext(ctx)
	if err := state.Wait(ctx); err != nil {
		return
	}
	if state.Principal() != nil {
		httpx.WriteRedirect(w, r, h.home)
		return
	}
	notice, ok := flash.ReadAndClear(w, r, h.policy)
	page := views.Page{}.WithFlash(ctx, notice, ok)
	views.Render(w, r, http.StatusOK, loginPage(ctx, page, loginView{}))
}

func (h handlers) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	tokens, err := h.accounts.SignIn(ctx, email, r.PostFormValue("password"))
	if err != nil {
		message := err.Error()
		if apperrors.CodeOf(err) == apperrors.CodeUnknown {
			h.logger.Error("sign in", append(requestctx.Fields(ctx), zap.Error(err))...)
			message = views.T(ctx, "error.unexpected")
		}
		views.Render(w, r, apperrors.HTTPStatus(err), loginPage(ctx, views.Page{}, loginView{Email: email, Error: message}))
		return
	}
	sessioncookie.Write(w, r, tokens.AccessToken, tokens.ExpiresAt, h.policy)
	httpx.WriteRedirect(w, r, h.home)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if token, ok := sessioncookie.Read(r); ok {
		if err := h.accounts.SignOut(ctx, token); err != nil && apperrors.CodeOf(err) == apperrors.CodeUnknown {
			h.logger.Warn("sign out", append(requestctx.Fields(ctx), zap.Error(err))...)
		}
	}
	if h.signedOut != nil {
		state := session.FromContext(ctx)
		if err := state.Wait(ctx); err == nil {
			if principal := state.Principal(); principal != nil {
				h.signedOut(principal.ID)
			}
		}
	}
	sessioncookie.Clear(w, r, h.policy)
	flash.Write(w, r, flash.Info("logout.done"), h.policy)
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.accounts.ConfirmEmail(ctx, r.URL.Query().Get("token")); err != nil {
		if apperrors.CodeOf(err) == apperrors.CodeUnknown {
			h.logger.Error("confirm email", append(requestctx.Fields(ctx), zap.Error(err))...)
		}
		flash.Write(w, r, flash.Notice{Kind: flash.KindError, Key: "confirm.failed"}, h.policy)
		httpx.WriteRedirect(w, r, routepath.Login)
		return
	}
	flash.Write(w, r, flash.Success("confirm.done"), h.policy)
	httpx.WriteRedirect(w, r, routepath.Login)
}
