package notify

import (
	"context" // Cancellation for outbound sends
	"fmt"     // Error formatting

	"dorm_booking/internal/config" // Mail settings

	"github.com/sirupsen/logrus" // Structured logging
)

// Message is a rendered email ready for delivery
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport delivers a message to an external mail service
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// NewTransport builds the transport named by cfg.Transport
func NewTransport(cfg config.Mail) (Transport, error) {
	switch cfg.Transport {
	case "", "log":
		return LogTransport{}, nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("smtp transport requires SMTP_HOST")
		}
		return NewSMTPTransport(cfg), nil
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("webhook transport requires MAIL_WEBHOOK_URL")
		}
		return NewWebhookTransport(cfg.WebhookURL, cfg.WebhookToken), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_TRANSPORT %q", cfg.Transport)
	}
}

// LogTransport only logs messages, for development
type LogTransport struct{}

func (LogTransport) Send(ctx context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email (log transport)")
	return nil
}
