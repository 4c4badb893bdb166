// Package mail delivers transactional email: OTP codes for password resets
// and generated credentials for new staff accounts.
package mail

import (
	"log/slog"
)

// Mailer abstracts the delivery channel so services don't care whether mail
// goes through SMTP or, in development, the log.
type Mailer interface {
	Send(to, subject, body string) error
}

// ConsoleMailer logs instead of sending; the fallback when SMTP is unset.
type ConsoleMailer struct{}

func NewConsole() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) Send(to, subject, body string) error {
	slog.Info("mail (console)", "to", to, "subject", subject, "body", body)
	return nil
}
