package identity

import (
	"context"

	"github.com/louisbranch/crmdesk/internal/platform/logging"
	"github.com/louisbranch/crmdesk/internal/platform/requestctx"
	"go.uber.org/zap"
)

// Mailer delivers account emails.
type Mailer interface {
	SendConfirmation(ctx context.Context, email string, confirmURL string) error
}

// LogMailer writes confirmation links to the log instead of sending email.
type LogMailer struct {
	Logger *zap.Logger
}

// SendConfirmation logs the confirmation link.
func (m LogMailer) SendConfirmation(ctx context.Context, email string, confirmURL string) error {
	logging.OrNop(m.Logger).Info("confirmation email",
		append(requestctx.Fields(ctx),
			zap.String("email", email),
			zap.String("confirm_url", confirmURL),
		)...,
	)
	return nil
}
