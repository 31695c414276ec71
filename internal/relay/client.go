// Package relay implements the outbound HTTP relay client the Work
// Dispatcher uses to command physical plugs and buttons (spec §4.E, §6).
// It follows the same GET-with-embedded-basic-auth shape as the Shelly
// relay API the original controller targeted, restructured from the
// teacher's UDP/HTTP device clients (clients/marstek, clients/esphome)
// into a single small HTTP client. Hosts with a `dummy://` prefix never
// hit the network — they exist so non-production runs (and the test
// suite's dummy fixtures) can exercise the exact same dispatch code path
// a real relay would take.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/madssf/smart-home/internal/domain"
)

// perCallTimeout bounds every relay HTTP call (spec §5: "relay commands
// have per-request timeouts (≤10 s)").
const perCallTimeout = 10 * time.Second

// defaultDummyPrefix is used when New is called with an empty prefix.
const defaultDummyPrefix = "dummy://"

// Client is an HTTP relay client shared by every Plug and Button.
// Credentials are per-call (each plug/button carries its own), so a
// single Client is reused across the whole process.
type Client struct {
	http        *http.Client
	dummyPrefix string
}

// New builds a Client with the spec's mandated per-call timeout. A host
// starting with dummyPrefix never hits the network; an empty dummyPrefix
// falls back to "dummy://" (env RELAY_DUMMY_PREFIX).
func New(dummyPrefix string) *Client {
	if dummyPrefix == "" {
		dummyPrefix = defaultDummyPrefix
	}
	return &Client{http: &http.Client{Timeout: perCallTimeout}, dummyPrefix: dummyPrefix}
}

// Command switches a relay on or off. It satisfies dispatcher.RelayClient.
func (c *Client) Command(ctx context.Context, host, username, password string, action domain.Action) error {
	if c.isDummy(host) {
		slog.Debug("dummy relay command", "host", host, "action", action)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, perCallTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("http://%s:%s@%s/relay/0/command?turn=%s",
		url.QueryEscape(username), url.QueryEscape(password), host, strings.ToLower(string(action)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build relay command request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("relay command to %s: %w", host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("relay command to %s: status %d: %s", host, resp.StatusCode, string(body))
	}
	return nil
}

// meterResponse is the Shelly-style `/meter/0` power-usage payload.
type meterResponse struct {
	Power float64 `json:"power"`
}

// PowerUsage reports the plug's current instantaneous power draw in watts.
// The dispatcher's control pass does not call it.
func (c *Client) PowerUsage(ctx context.Context, host, username, password string) (float64, error) {
	if c.isDummy(host) {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, perCallTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("http://%s:%s@%s/meter/0", url.QueryEscape(username), url.QueryEscape(password), host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build meter request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("meter request to %s: %w", host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("meter request to %s: status %d: %s", host, resp.StatusCode, string(body))
	}

	var m meterResponse
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return 0, fmt.Errorf("decode meter response from %s: %w", host, err)
	}
	return m.Power, nil
}

func (c *Client) isDummy(host string) bool {
	return strings.HasPrefix(host, c.dummyPrefix)
}
