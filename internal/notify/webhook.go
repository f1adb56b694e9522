package notify

import (
	"context" // Request cancellation
	"fmt"     // Error formatting
	"time"    // Client timeouts

	"github.com/go-resty/resty/v2" // HTTP client
)

// WebhookTransport posts messages as JSON to a mail relay
type WebhookTransport struct {
	client *resty.Client
	url    string
}

// NewWebhookTransport returns a transport posting to url with an optional bearer token
func NewWebhookTransport(url, token string) *WebhookTransport {
	client := resty.New().
		SetTimeout(5*time.Second).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetAuthToken(token)
	}
	return &WebhookTransport{client: client, url: url}
}

func (t *WebhookTransport) Send(ctx context.Context, msg Message) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"to":      msg.To,
			"subject": msg.Subject,
			"html":    msg.HTML,
		}).
		Post(t.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail relay rejected request: %s", resp.Status())
	}
	return nil
}
