package channel

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/review-service/internal/config"
)

// EmailChannel delivers composed HTML over SMTP. It needs no tenant
// credentials; the sending identity is service-wide.
type EmailChannel struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

// NewEmailChannel constructs the channel.
func NewEmailChannel(cfg config.EmailConfig, logger *zap.Logger) *EmailChannel {
	return &EmailChannel{cfg: cfg, logger: logger}
}

// Name identifies the channel in logs and metrics.
func (c *EmailChannel) Name() string { return "email" }

// Send delivers one message. The context deadline bounds the whole SMTP
// conversation; a timed-out send is an ordinary channel failure.
func (c *EmailChannel) Send(ctx context.Context, destination string, content Content) error {
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("email: empty destination")
	}

	addr := net.JoinHostPort(c.cfg.SMTPHost, c.cfg.SMTPPort)
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("email: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("email: handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: c.cfg.SMTPHost}); err != nil {
			return fmt.Errorf("email: starttls: %w", err)
		}
	}
	if c.cfg.Username != "" {
		auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("email: auth: %w", err)
		}
	}

	if err := client.Mail(c.cfg.FromAddress); err != nil {
		return fmt.Errorf("email: mail from: %w", err)
	}
	if err := client.Rcpt(destination); err != nil {
		return fmt.Errorf("email: rcpt to: %w", err)
	}
	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("email: data: %w", err)
	}
	if _, err := writer.Write(buildMIME(c.cfg.FromAddress, destination, content)); err != nil {
		writer.Close()
		return fmt.Errorf("email: write body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("email: close body: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("email: quit: %w", err)
	}

	c.logger.Debug("email delivered", zap.String("to", destination))
	return nil
}

func buildMIME(from, to string, content Content) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", content.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(content.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}
