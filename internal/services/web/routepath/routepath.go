// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Register        = "/register"
	Login           = "/login"
	Logout          = "/logout"
	AuthConfirm     = "/auth/confirm"
	Health          = "/healthz"
	APISession      = "/api/session"
	AppPrefix       = "/app/"
	AppAssistant    = "/app/assistant"
	AssistantPrefix = "/app/assistant/"
	AssistantSend   = "/app/assistant/send"
	AssistantPrompt = "/app/assistant/prompt"
)

// InviteQueryKey names the query parameter carrying an invitation token.
const InviteQueryKey = "invite"

// RegisterWithInvite returns the registration path for an invitation token.
func RegisterWithInvite(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return Register
	}
	return Register + "?" + url.Values{InviteQueryKey: {token}}.Encode()
}

// AuthConfirmWithToken returns the confirmation path for an email token.
func AuthConfirmWithToken(token string) string {
	return AuthConfirm + "?" + url.Values{"token": {token}}.Encode()
}
