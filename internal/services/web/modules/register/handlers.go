package register

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/crmdesk/internal/platform/errors"
	"github.com/louisbranch/crmdesk/internal/platform/requestctx"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"github.com/louisbranch/crmdesk/internal/services/web/views"
	"go.uber.org/zap"
)

// registerService defines the service operations used by register handlers.
type registerService interface {
	ResolveInvite(ctx context.Context, token string) InviteResolution
	Register(ctx context.Context, resolution InviteResolution, form Form) (Result, error)
}

type handlers struct {
	service registerService
	policy  requestmeta.SchemePolicy
	logger  *zap.Logger
}

func newHandlers(s registerService, policy requestmeta.SchemePolicy, logger *zap.Logger) handlers {
	return handlers{service: s, policy: policy, logger: logger}
}

func inviteToken(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get(routepath.InviteQueryKey)); token != "" {
		return token
	}
	return strings.TrimSpace(r.PostFormValue(routepath.InviteQueryKey))
}

func (h handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resolution := h.service.ResolveInvite(ctx, inviteToken(r))
	if resolution.Invalid {
		views.Render(w, r, apperrors.HTTPStatus(ErrInviteInvalid), invalidInvitePage(ctx))
		return
	}
	views.Render(w, r, http.StatusOK, registerPage(ctx, newFormView(resolution, Form{})))
}

func (h handlers) handlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	resolution := h.service.ResolveInvite(ctx, inviteToken(r))
	if resolution.Invalid {
		views.Render(w, r, apperrors.HTTPStatus(ErrInviteInvalid), invalidInvitePage(ctx))
		return
	}
	form := Form{
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		Company:   r.PostFormValue("company"),
	}
	result, err := h.service.Register(ctx, resolution, form)
	if err != nil {
		view := newFormView(resolution, form)
		view.Error = errorText(ctx, err)
		if apperrors.CodeOf(err) == apperrors.CodeUnknown {
			h.logger.Error("register account", append(requestctx.Fields(ctx), zap.Error(err))...)
		}
		views.Render(w, r, apperrors.HTTPStatus(err), registerPage(ctx, view))
		return
	}
	flash.Write(w, r, flash.Success("register.success_notice"), h.policy)
	views.Render(w, r, http.StatusOK, successPage(ctx, result))
}

func newFormView(resolution InviteResolution, form Form) formView {
	view := formView{Token: resolution.Token, Values: form}
	view.Values.Password = ""
	if inv := resolution.Invite; inv != nil {
		view.Invited = true
		view.CompanyName = resolution.CompanyName
		view.Values.Email = inv.Email
		view.Values.Company = inv.CompanyID
	}
	return view
}

// errorText returns the identity message for domain failures and a generic
// message otherwise.
func errorText(ctx context.Context, err error) string {
	if apperrors.CodeOf(err) == apperrors.CodeUnknown {
		return views.T(ctx, "error.unexpected")
	}
	return err.Error()
}
