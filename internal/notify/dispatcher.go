// Package notify renders status email templates and hands them to a mail transport.
package notify

import (
	"context" // Request scoping
	"errors"  // Error classification

	"dorm_booking/internal/domain"  // Importing domain models
	"dorm_booking/internal/metrics" // Delivery counters

	"github.com/sirupsen/logrus" // Structured logging
)

// Notice describes one status email to send
type Notice struct {
	Status    domain.Status // Selects the template
	Recipient string        // Applicant email
	Vars      Vars          // Placeholder values
}

// Dispatcher looks up the template for a status and sends it
type Dispatcher struct {
	templates *TemplateStore
	transport Transport
}

// NewDispatcher returns a Dispatcher sending through transport
func NewDispatcher(templates *TemplateStore, transport Transport) *Dispatcher {
	return &Dispatcher{templates: templates, transport: transport}
}

// Notify sends the email for n. A missing template is returned as
// ErrTemplateNotFound; transport failures are logged and swallowed.
func (d *Dispatcher) Notify(ctx context.Context, n Notice) error {
	tpl, err := d.templates.Get(ctx, n.Status)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			metrics.Notifications.WithLabelValues("no_template").Inc()
		}
		return err
	}
	msg := Message{
		To:      n.Recipient,
		Subject: Render(tpl.Subject, n.Vars),
		HTML:    RenderHTML(tpl.Body, n.Vars),
	}
	if err := d.transport.Send(ctx, msg); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		logrus.WithFields(logrus.Fields{
			"to":     n.Recipient,
			"status": n.Status,
			"error":  err.Error(),
		}).Warn("Failed to send status email")
		return nil
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
	logrus.WithFields(logrus.Fields{
		"to":     n.Recipient,
		"status": n.Status,
	}).Info("Status email sent")
	return nil
}
