package contact

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Zachkp/folio/internal/config"
)

// Notifier is told about every message the CMS accepted.
type Notifier interface {
	Notify(ctx context.Context, f Form) error
}

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// MailNotifier emails the site owner a copy of each contact message.
type MailNotifier struct {
	cfg      config.SMTPConfig
	sendMail SendMailFunc
}

func NewMailNotifier(cfg config.SMTPConfig) *MailNotifier {
	return &MailNotifier{cfg: cfg, sendMail: smtp.SendMail}
}

func (m *MailNotifier) Notify(_ context.Context, f Form) error {
	if !m.cfg.Enabled() {
		return fmt.Errorf("smtp credentials not configured")
	}

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.sendMail(addr, auth, m.cfg.User, []string{m.cfg.To}, m.compose(f)); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	return nil
}

func (m *MailNotifier) compose(f Form) []byte {
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, f.Name, f.Email, f.Message)

	return []byte("To: " + m.cfg.To + "\r\n" +
		"Subject: " + headerValue("Portfolio Contact: "+f.Name) + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + headerValue(f.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerValue strips line breaks so user input cannot inject headers.
func headerValue(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
