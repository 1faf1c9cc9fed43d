// Package notification delivers operator alerts for failed feed
// processing.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	feedapp "github.com/sellercentric/backend/internal/application/feed"
	infraconfig "github.com/sellercentric/backend/internal/infrastructure/config"
)

// Ensure SMTPNotifier implements NotificationService
var _ feedapp.NotificationService = (*SMTPNotifier)(nil)

// SMTPNotifier emails operator alerts through a plain SMTP relay. When
// disabled by configuration it logs the alert and reports success, so
// callers keep their best-effort semantics in every environment.
type SMTPNotifier struct {
	enabled  bool
	addr     string
	from     string
	to       []string
	sendMail func(addr, from string, to []string, msg []byte) error
	logger   *zap.Logger
}

// NewSMTPNotifier creates a new SMTPNotifier from configuration
func NewSMTPNotifier(cfg *infraconfig.NotificationConfig, logger *zap.Logger) (*SMTPNotifier, error) {
	if cfg == nil {
		return nil, errors.New("notification configuration is required")
	}
	if cfg.Enabled {
		if cfg.SMTPHost == "" {
			return nil, errors.New("notification smtp host is required")
		}
		if cfg.FromEmail == "" {
			return nil, errors.New("notification from address is required")
		}
		if len(cfg.ToEmails) == 0 {
			return nil, errors.New("notification recipient list is empty")
		}
	}
	return &SMTPNotifier{
		enabled: cfg.Enabled,
		addr:    fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:    cfg.FromEmail,
		to:      cfg.ToEmails,
		sendMail: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
		logger: logger,
	}, nil
}

// NotifyError emails an alert to the configured recipients
func (n *SMTPNotifier) NotifyError(ctx context.Context, subject, body string) error {
	if !n.enabled {
		n.logger.Info("Notification suppressed, notifier disabled",
			zap.String("subject", subject))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(n.from, n.to, subject, body)
	if err := n.sendMail(n.addr, n.from, n.to, msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	n.logger.Info("Notification sent",
		zap.String("subject", subject),
		zap.Int("recipients", len(n.to)))
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// sanitizeHeader strips CR and LF so alert text cannot inject headers
func sanitizeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.ReplaceAll(value, "\n", " ")
}
