// Package notify is an ntfy.sh-style HTTP publisher: POST the message body
// to https://ntfy.sh/{topic}. Structured the way the teacher's telegram
// client builds its requests (shared *http.Client with a timeout,
// context-aware NewRequestWithContext, status-code check), generalized
// from a JSON bot API to ntfy's plain-text-body push API per
// original_source/clients/ntfy.rs.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const publishTimeout = 20 * time.Second

const defaultBaseURL = "https://ntfy.sh"

// Client publishes plain-text push notifications to an ntfy topic.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. baseURL defaults to the public ntfy.sh server if
// empty, so a self-hosted ntfy instance can be substituted via config.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: publishTimeout},
	}
}

// Publish posts message as the body of a notification to topic. A blank
// topic is a caller error (NotificationSettings validation should have
// already caught this) and is rejected without a network call.
func (c *Client) Publish(ctx context.Context, topic, message string) error {
	if topic == "" {
		return fmt.Errorf("notify: topic must not be empty")
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, topic)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("create notify request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("publish notification: unexpected status code %d", resp.StatusCode)
	}
	return nil
}
