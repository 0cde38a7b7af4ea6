// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/prperemyshlev/connect-service/internal/config"
)

const implicitTLSPort = "465"

const linkPlaceholder = ":link"

const defaultRecoverTemplate = `<p>We received a request to reset your password.</p>
<p><a href=":link">Reset password</a></p>
<p>If you did not request it, ignore this message.</p>`

// Sender delivers a single HTML message
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPSender creates a sender for the configured relay
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.User,
		password: cfg.Password,
		from:     cfg.From,
	}
}

// Send delivers an HTML message. Port 465 uses implicit TLS, any other port
// upgrades with STARTTLS when the server offers it.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := buildMessage(s.from, to, subject, body)
	addr := net.JoinHostPort(s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if s.port != implicitTLSPort {
		if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
			return fmt.Errorf("failed to send mail: %w", err)
		}
		return nil
	}

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: s.host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func buildMessage(from, to, subject, body string) []byte {
	return []byte(
		fmt.Sprintf("From: %s\r\n", from) +
			fmt.Sprintf("To: %s\r\n", to) +
			fmt.Sprintf("Subject: %s\r\n", subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=\"utf-8\"\r\n" +
			"\r\n" +
			body,
	)
}

// RecoveryMailer renders and sends password recovery emails
type RecoveryMailer struct {
	sender      Sender
	subject     string
	template    string
	frontendURL string
}

// NewRecoveryMailer decodes the configured base64 template. An empty
// template falls back to a built-in one.
func NewRecoveryMailer(sender Sender, cfg config.EmailConfig) (*RecoveryMailer, error) {
	template := defaultRecoverTemplate
	if cfg.RecoverTemplate != "" {
		decoded, err := base64.StdEncoding.DecodeString(cfg.RecoverTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to decode recovery template: %w", err)
		}
		template = string(decoded)
	}

	return &RecoveryMailer{
		sender:      sender,
		subject:     cfg.RecoverSubject,
		template:    template,
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
	}, nil
}

// Link returns the frontend reset URL carrying code
func (m *RecoveryMailer) Link(code string) string {
	return m.frontendURL + "/reset/" + code
}

// Render fills every link placeholder of the template
func (m *RecoveryMailer) Render(code string) string {
	return strings.ReplaceAll(m.template, linkPlaceholder, m.Link(code))
}

// SendRecovery emails the reset link for code to the given address
func (m *RecoveryMailer) SendRecovery(ctx context.Context, to, code string) error {
	return m.sender.Send(ctx, to, m.subject, m.Render(code))
}
