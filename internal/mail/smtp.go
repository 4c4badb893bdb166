package mail

import (
	"github.com/charmcard/charm-backend/internal/config"
	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer sends through a plain SMTP relay (Gmail app password in the
// original deployment).
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// FromConfig picks the SMTP mailer when a host is configured, console
// otherwise.
func FromConfig(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		return NewConsole()
	}
	return NewSMTP(cfg)
}
