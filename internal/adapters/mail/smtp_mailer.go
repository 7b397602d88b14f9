package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/zatekoja/hospital-management/internal/domain/providers"
	"github.com/zatekoja/hospital-management/pkg/config"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers mail through an SMTP relay behind a circuit breaker
type SMTPMailer struct {
	addr    string
	from    string
	auth    smtp.Auth
	send    sendFunc
	breaker *gobreaker.CircuitBreaker
}

// NewSMTPMailer creates an SMTP mailer from cfg. The breaker opens after
// five consecutive failures and probes again after 30 seconds.
func NewSMTPMailer(cfg *config.MailConfig) providers.Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return newSMTPMailer(cfg.SMTPAddr(), cfg.From, auth, smtp.SendMail)
}

func newSMTPMailer(addr, from string, auth smtp.Auth, send sendFunc) *SMTPMailer {
	return &SMTPMailer{
		addr: addr,
		from: from,
		auth: auth,
		send: send,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "smtp",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		}),
	}
}

// Send delivers msg
func (m *SMTPMailer) Send(ctx context.Context, msg providers.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.send(m.addr, m.auth, m.from, []string{msg.To}, m.compose(msg))
	})
	if err != nil {
		return apperrors.NewExternalError("failed to send mail", err)
	}
	return nil
}

func (m *SMTPMailer) compose(msg providers.Mail) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
