// Package requestmeta derives scheme and origin facts from incoming requests.
package requestmeta

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// SchemePolicy controls which headers may influence the request scheme.
type SchemePolicy struct {
	// TrustForwardedProto honors X-Forwarded-Proto from a trusted proxy.
	TrustForwardedProto bool
}

// IsHTTPS reports whether r arrived over HTTPS under policy.
func IsHTTPS(r *http.Request, policy SchemePolicy) bool {
	return Scheme(r, policy) == "https"
}

// Scheme returns "https" or "http" for r.
func Scheme(r *http.Request, policy SchemePolicy) string {
	if r == nil {
		return "http"
	}
	if policy.TrustForwardedProto {
		switch proto := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))); proto {
		case "http", "https":
			return proto
		}
	}
	if r.TLS != nil {
		return "https"
	}
	if r.URL != nil && strings.EqualFold(r.URL.Scheme, "https") {
		return "https"
	}
	return "http"
}

// SameOrigin reports whether the Origin header, or the Referer when Origin is
// absent, names the same scheme, host and port as r.
func SameOrigin(r *http.Request, policy SchemePolicy) bool {
	if r == nil {
		return false
	}
	source := strings.TrimSpace(r.Header.Get("Origin"))
	if source == "" {
		source = strings.TrimSpace(r.Header.Get("Referer"))
	}
	if source == "" {
		return false
	}
	parsed, err := url.Parse(source)
	if err != nil || parsed.Host == "" {
		return false
	}

	scheme := Scheme(r, policy)
	if !strings.EqualFold(parsed.Scheme, scheme) {
		return false
	}
	wantHost, wantPort := splitHost(r.Host, scheme)
	gotHost, gotPort := splitHost(parsed.Host, scheme)
	return wantHost != "" && wantHost == gotHost && wantPort == gotPort
}

func splitHost(raw, scheme string) (string, string) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		host = strings.Trim(raw, "[]")
		port = ""
	}
	if port == "" {
		port = "80"
		if scheme == "https" {
			port = "443"
		}
	}
	return host, port
}
