package mail

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/providers"
)

// LogMailer writes outgoing mail to the log instead of delivering it
type LogMailer struct{}

// NewLogMailer creates a mailer for development and tests
func NewLogMailer() providers.Mailer {
	return &LogMailer{}
}

// Send logs the message
func (m *LogMailer) Send(ctx context.Context, msg providers.Mail) error {
	log.Ctx(ctx).Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("mail")
	return nil
}
