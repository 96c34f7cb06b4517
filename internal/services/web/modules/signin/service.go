// Package signin serves the sign-in, sign-out and email confirmation routes.
package signin

import (
	"context"

	"github.com/louisbranch/crmdesk/internal/services/identity"
	"github.com/louisbranch/crmdesk/internal/services/identity/user"
)

// Accounts is the identity surface used by sign-in handlers.
type Accounts interface {
	SignIn(ctx context.Context, email, password string) (identity.Tokens, error)
	SignOut(ctx context.Context, accessToken string) error
	ConfirmEmail(ctx context.Context, confirmationToken string) (user.User, error)
}
