package mailer

import (
	"errors"
	"fmt"
	"net/smtp"

	"vetclinic-server/internal/config"
)

// ErrNotConfigured is returned when SMTP credentials are missing. Callers
// treat it like any other send failure: log it and move on.
var ErrNotConfigured = errors.New("smtp credentials not configured")

// Mailer sends plaintext notification emails over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

// New creates a Mailer from SMTP configuration.
func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send submits one plaintext message. A failure is returned to the caller to
// log; it is never fatal to the operation that triggered the email.
func (m *Mailer) Send(to, subject, body string) error {
	if m.cfg.Email == "" || m.cfg.Password == "" {
		return ErrNotConfigured
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Email, m.cfg.Password, m.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.cfg.Email, to, subject, body)

	if err := smtp.SendMail(addr, auth, m.cfg.Email, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
