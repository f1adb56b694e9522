package notify

import (
	"bytes"          // Message buffer
	"context"        // Cancellation check before dialing
	"fmt"            // Header formatting
	"mime"           // Encoded headers
	"mime/multipart" // multipart/alternative body
	"net/mail"       // Address formatting
	"net/smtp"       // SMTP delivery
	"net/textproto"  // Part headers
	"strconv"        // Port formatting

	"dorm_booking/internal/config" // Mail settings

	md "github.com/JohannesKaufmann/html-to-markdown" // Plain-text alternative
)

// SMTPTransport sends HTML mail with a plain-text alternative over SMTP (STARTTLS when offered)
type SMTPTransport struct {
	addr      string
	auth      smtp.Auth
	from      mail.Address
	converter *md.Converter
}

// NewSMTPTransport builds an SMTP transport from the mail config
func NewSMTPTransport(cfg config.Mail) *SMTPTransport {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPTransport{
		addr:      cfg.SMTPHost + ":" + strconv.Itoa(cfg.SMTPPort),
		auth:      auth,
		from:      mail.Address{Name: cfg.FromName, Address: cfg.From},
		converter: md.NewConverter("", true, nil),
	}
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := t.build(msg)
	if err != nil {
		return err
	}
	return smtp.SendMail(t.addr, t.auth, t.from.Address, []string{msg.To}, body)
}

// build renders the RFC 5322 message
func (t *SMTPTransport) build(msg Message) ([]byte, error) {
	text, err := t.converter.ConvertString(msg.HTML)
	if err != nil {
		return nil, fmt.Errorf("convert html body: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "From: %s\r\n", t.from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", w.Boundary())

	for _, part := range []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", text},
		{"text/html; charset=utf-8", msg.HTML},
	} {
		pw, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := pw.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
