package flash

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/crmdesk/internal/services/web/platform/requestmeta"
)

func TestWriteThenReadAndClear(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Write(rec, httptest.NewRequest(http.MethodPost, "/logout", nil), Success("logout.done"), requestmeta.SchemePolicy{})
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookies[0])
	clearRec := httptest.NewRecorder()
	notice, ok := ReadAndClear(clearRec, req, requestmeta.SchemePolicy{})
	if !ok || notice != Success("logout.done") {
		t.Fatalf("ReadAndClear() = %+v, %v", notice, ok)
	}
	cleared := clearRec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("expected cleared cookie, got %+v", cleared)
	}
}

func TestWriteIgnoresInvalidNotices(t *testing.T) {
	t.Parallel()

	for _, notice := range []Notice{{Kind: KindInfo}, {Kind: "shout", Key: "k"}} {
		rec := httptest.NewRecorder()
		Write(rec, httptest.NewRequest(http.MethodGet, "/", nil), notice, requestmeta.SchemePolicy{})
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("expected no cookie for %+v", notice)
		}
	}
}

func TestReadRejectsTamperedCookie(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"%%%", base64.RawURLEncoding.EncodeToString([]byte(`{"kind":"root","key":"x"}`))} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
		if _, ok := ReadAndClear(nil, req, requestmeta.SchemePolicy{}); ok {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}
