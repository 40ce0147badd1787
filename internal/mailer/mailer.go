// Package mailer delivers HTML e-mail through an SMTP relay.
package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/seatpredictor-backend/internal/config"
	"gopkg.in/gomail.v2"
)

// Message is a single outbound e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// dialer is the subset of *gomail.Dialer used by SMTPMailer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends each message over a fresh SMTP connection.
type SMTPMailer struct {
	from   string
	dialer dialer
	log    zerolog.Logger
}

// NewSMTPMailer creates an SMTPMailer for the configured relay.
func NewSMTPMailer(cfg config.SMTPConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    log.With().Str("component", "mailer").Logger(),
	}
}

// Send delivers msg. The context is only checked before dialing; gomail
// has no cancellation support once the SMTP session starts.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	m.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("Mail sent")
	return nil
}
