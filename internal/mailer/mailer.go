// Package mailer wraps the SMTP client used for outbound notifications and
// reports. The client is constructed once at startup from config; when no
// SMTP host is configured the mailer is disabled and Send becomes an error.
package mailer

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jayasuriya321/finance/internal/config"
)

// Attachment is an in-memory file to attach to a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound email.
type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Mailer sends email through a configured SMTP server.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New builds a Mailer from config. With an empty host the mailer is disabled.
func New(cfg config.SMTPConfig) *Mailer {
	m := &Mailer{from: cfg.From}
	if cfg.Host == "" {
		return m
	}
	if m.from == "" {
		m.from = cfg.Username
	}
	m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return m
}

// Enabled reports whether an SMTP server is configured.
func (m *Mailer) Enabled() bool {
	return m.dialer != nil
}

// Send delivers one message. Fire-and-forget callers are expected to log the
// returned error rather than retry.
func (m *Mailer) Send(msg Message) error {
	if !m.Enabled() {
		return fmt.Errorf("smtp is not configured")
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.HTML != "" {
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	} else {
		gm.SetBody("text/plain", msg.Text)
	}

	for _, att := range msg.Attachments {
		content := att.Content
		gm.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
