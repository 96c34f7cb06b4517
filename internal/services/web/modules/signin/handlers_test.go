package signin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/crmdesk/internal/platform/i18n"
	"github.com/louisbranch/crmdesk/internal/services/identity"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/flash"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/crmdesk/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/crmdesk/internal/services/web/session"
	"github.com/louisbranch/crmdesk/internal/services/web/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	signInErr  error
	signOutErr error
	confirmErr error
	signedOut  []string
	confirmed  []string
}

func (f *fakeAccounts) SignIn(_ context.Context, email, password string) (identity.Tokens, error) {
	if f.signInErr != nil {
		return identity.Tokens{}, f.signInErr
	}
	if email != "a@x.com" || password != "secret1" {
		return identity.Tokens{}, user.ErrInvalidCredentials
	}
	return identity.Tokens{AccessToken: "token-1", SessionID: "sess-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAccounts) SignOut(_ context.Context, accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return f.signOutErr
}

func (f *fakeAccounts) ConfirmEmail(_ context.Context, token string) (user.User, error) {
	f.confirmed = append(f.confirmed, token)
	if f.confirmErr != nil {
		return user.User{}, f.confirmErr
	}
	return user.User{ID: "user-1"}, nil
}

func newTestHandler(t *testing.T, accounts Accounts) http.Handler {
	t.Helper()
	bundle, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	mount, err := New(accounts, requestmeta.SchemePolicy{}, nil).Mount()
	require.NoError(t, err)
	return views.Localize(bundle)(mount.Handler)
}

func cookieNamed(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestMountRequiresAccounts(t *testing.T) {
	t.Parallel()

	_, err := New(nil, requestmeta.SchemePolicy{}, nil).Mount()
	require.Error(t, err)
}

func TestRoutesMethodContracts(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeAccounts{})
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "login get", method: http.MethodGet, path: "/login", wantStatus: http.StatusOK},
		{name: "logout get rejected", method: http.MethodGet, path: "/logout", wantStatus: http.StatusMethodNotAllowed},
		{name: "logout post", method: http.MethodPost, path: "/logout", wantStatus: http.StatusSeeOther},
		{name: "confirm get", method: http.MethodGet, path: "/auth/confirm?token=x", wantStatus: http.StatusSeeOther},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestLoginPostSuccessSetsSessionCookie(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeAccounts{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"secret1"}}))

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/app/assistant", rr.Header().Get("Location"))
	c := cookieNamed(rr, sessioncookie.Name)
	require.NotNil(t, c)
	assert.Equal(t, "token-1", c.Value)
	assert.True(t, c.HttpOnly)
}

func TestLoginPostFailureRendersIdentityMessage(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeAccounts{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"wrong"}}))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid login credentials")
	assert.Contains(t, rr.Body.String(), `value="a@x.com"`)
	assert.Nil(t, cookieNamed(rr, sessioncookie.Name))
}

func TestLoginPostUnconfirmedAccount(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeAccounts{signInErr: user.ErrEmailNotConfirmed})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"secret1"}}))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLogoutRevokesAndClears(t *testing.T) {
	t.Parallel()

	accounts := &fakeAccounts{}
	h := newTestHandler(t, accounts)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "token-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Equal(t, []string{"token-1"}, accounts.signedOut)
	cleared := cookieNamed(rr, sessioncookie.Name)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
	assert.NotNil(t, cookieNamed(rr, flash.CookieName))
}

type fakeIdentity struct{}

func (fakeIdentity) GetPrincipal(_ context.Context, accessToken string) (user.User, error) {
	if accessToken != "token-1" {
		return user.User{}, identity.ErrSessionRevoked
	}
	return user.User{ID: "user-1", Email: "a@x.com"}, nil
}

func TestLogoutRunsSignOutHook(t *testing.T) {
	t.Parallel()

	var forgotten []string
	mount, err := New(&fakeAccounts{}, requestmeta.SchemePolicy{}, nil, WithSignOutHook(func(userID string) {
		forgotten = append(forgotten, userID)
	})).Mount()
	require.NoError(t, err)
	h := session.Middleware(session.NewProvider(fakeIdentity{}, nil, nil))(mount.Handler)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "token-1"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, []string{"user-1"}, forgotten)

	anonymous := httptest.NewRecorder()
	h.ServeHTTP(anonymous, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, []string{"user-1"}, forgotten)
}

func TestConfirmFlashShownOnLogin(t *testing.T) {
	t.Parallel()

	accounts := &fakeAccounts{}
	h := newTestHandler(t, accounts)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/confirm?token=conf-1", nil))

	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, []string{"conf-1"}, accounts.confirmed)
	notice := cookieNamed(rr, flash.CookieName)
	require.NotNil(t, notice)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(notice)
	page := httptest.NewRecorder()
	h.ServeHTTP(page, req)

	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Email confirmed. You can sign in now.")
	assert.Contains(t, page.Body.String(), "notice-success")
}

func TestConfirmFailureFlashesError(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeAccounts{confirmErr: identity.ErrConfirmationInvalid})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/confirm?token=bad", nil))

	require.Equal(t, http.StatusSeeOther, rr.Code)
	notice := cookieNamed(rr, flash.CookieName)
	require.NotNil(t, notice)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(notice)
	page := httptest.NewRecorder()
	h.ServeHTTP(page, req)
	assert.Contains(t, page.Body.String(), "Confirmation link is invalid or was already used.")
}
