package sessioncookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
)

func TestWriteThenRead(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	expires := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	Write(rec, req, " token-1 ", expires, requestmeta.SchemePolicy{})

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	got := cookies[0]
	if got.Name != Name || got.Value != "token-1" || !got.HttpOnly || got.Secure {
		t.Fatalf("unexpected cookie: %+v", got)
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(got)
	value, ok := Read(next)
	if !ok || value != "token-1" {
		t.Fatalf("Read() = %q, %v", value, ok)
	}
}

func TestReadMissingOrBlank(t *testing.T) {
	t.Parallel()

	if _, ok := Read(nil); ok {
		t.Fatal("expected nil request to have no session")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: "  "})
	if _, ok := Read(req); ok {
		t.Fatal("expected blank cookie to be ignored")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Clear(rec, httptest.NewRequest(http.MethodPost, "/logout", nil), requestmeta.SchemePolicy{})
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
}
