// Package errors provides structured, coded domain errors.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Identity errors
	CodeUserEmptyEmail         Code = "USER_EMPTY_EMAIL"
	CodeUserInvalidEmail       Code = "USER_INVALID_EMAIL"
	CodeUserWeakPassword       Code = "USER_WEAK_PASSWORD"
	CodeUserEmailTaken         Code = "USER_EMAIL_TAKEN"
	CodeUserEmailNotConfirmed  Code = "USER_EMAIL_NOT_CONFIRMED"
	CodeUserInvalidCredentials Code = "USER_INVALID_CREDENTIALS"
	CodeConfirmationInvalid    Code = "CONFIRMATION_INVALID"

	// Token and session errors
	CodeTokenInvalid   Code = "TOKEN_INVALID"
	CodeTokenExpired   Code = "TOKEN_EXPIRED"
	CodeSessionRevoked Code = "SESSION_REVOKED"

	// Company errors
	CodeCompanyEmptyName Code = "COMPANY_EMPTY_NAME"

	// Invite errors
	CodeInviteEmptyEmail     Code = "INVITE_EMPTY_EMAIL"
	CodeInviteInvalidEmail   Code = "INVITE_INVALID_EMAIL"
	CodeInviteEmptyCompanyID Code = "INVITE_EMPTY_COMPANY_ID"
	CodeInviteInvalidRole    Code = "INVITE_INVALID_ROLE"
	CodeInviteNotPending     Code = "INVITE_NOT_PENDING"
	CodeInviteInvalid        Code = "INVITE_INVALID"

	// Profile errors
	CodeProfileEmptyUserID Code = "PROFILE_EMPTY_USER_ID"

	// Query errors
	CodeFilterInvalid Code = "FILTER_INVALID"
)

// HTTPStatus maps the code to the HTTP status used by web handlers.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUserEmptyEmail,
		CodeUserInvalidEmail,
		CodeUserWeakPassword,
		CodeCompanyEmptyName,
		CodeInviteEmptyEmail,
		CodeInviteInvalidEmail,
		CodeInviteEmptyCompanyID,
		CodeInviteInvalidRole,
		CodeProfileEmptyUserID,
		CodeFilterInvalid,
		CodeConfirmationInvalid:
		return http.StatusBadRequest

	case CodeUserInvalidCredentials,
		CodeTokenInvalid,
		CodeTokenExpired,
		CodeSessionRevoked:
		return http.StatusUnauthorized

	case CodeUserEmailNotConfirmed:
		return http.StatusForbidden

	case CodeUserEmailTaken,
		CodeInviteNotPending:
		return http.StatusConflict

	case CodeInviteInvalid:
		return http.StatusGone

	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
