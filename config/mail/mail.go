package mail

import (
	"context"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

/*
* Build the html message and dial the smtp server
* The dial is synchronous, so the caller's request waits on delivery
 */
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "HealthLife")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Error().Err(err).Str("to", to).Msg("failed to send email")
		return err
	}
	log.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

// LogMailer writes mail to the log instead of sending it. Used when SMTP_HOST is empty.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	log.Warn().Str("to", to).Str("subject", subject).Str("body", htmlBody).Msg("SMTP not configured, mail logged only")
	return nil
}
