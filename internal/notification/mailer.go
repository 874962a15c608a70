package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/taskhub/taskhub-api/internal/config"
)

// Mailer delivers a single HTML email. Delivery is fire-and-forget from the
// dispatcher's perspective; failures are logged by the caller, never
// propagated.
type Mailer interface {
	Send(toAddress, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP server.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg config.EmailConfig) (*SMTPMailer, error) {
	host := strings.TrimSpace(cfg.SMTPHost)
	from := strings.TrimSpace(cfg.From)
	if host == "" {
		return nil, fmt.Errorf("smtp_host is required for mailer")
	}
	if from == "" {
		return nil, fmt.Errorf("from is required for mailer")
	}
	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}

	return &SMTPMailer{
		host:     host,
		port:     port,
		username: strings.TrimSpace(cfg.Username),
		password: cfg.Password,
		from:     from,
	}, nil
}

func (m *SMTPMailer) Send(toAddress, subject, htmlBody string) error {
	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n",
		m.from, toAddress, subject)

	message := []byte(headers + htmlBody)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{toAddress}, message)
}
