package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"gigstage/pkg/logger"
)

// Notifier delivers a message to one recipient address.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string) error
}

// SMTPNotifier sends plain-text mail through a single SMTP relay.
type SMTPNotifier struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPNotifier(host, port, user, pass, from string) *SMTPNotifier {
	return &SMTPNotifier{
		host: host,
		port: port,
		user: user,
		pass: pass,
		from: from,
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + n.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if n.user != "" {
		auth = smtp.PlainAuth("", n.user, n.pass, n.host)
	}

	addr := fmt.Sprintf("%s:%s", n.host, n.port)
	if err := smtp.SendMail(addr, auth, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	logger.Debug("Mail sent to %s: %s", to, subject)
	return nil
}

// LogNotifier writes notifications to the application log. Used in
// development and tests where no SMTP relay is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, to, subject, body string) error {
	logger.Info("Notification to %s: %s", to, subject)
	return nil
}
