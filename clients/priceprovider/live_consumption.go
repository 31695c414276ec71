package priceprovider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gorilla/websocket"

	"github.com/madssf/smart-home/internal/domain"
)

const (
	liveConsumptionURL = "wss://api.tibber.com/v1-beta/gql/subscriptions"
	wsSubprotocol      = "graphql-transport-ws"
	ackTimeout         = 10 * time.Second

	backoffInitial     = 2 * time.Second
	backoffMax         = 60 * time.Second
	backoffStableAfter = 5 * time.Minute
)

// newReconnectBackoff builds the exponential backoff the reconnect loop
// uses for transient I/O failures (spec §7): 2s initial, 60s cap, no
// elapsed-time limit since the subscriber retries forever.
func newReconnectBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = backoffInitial
	b.MaxInterval = backoffMax
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// ConsumptionSink is the narrow slice of internal/consumption.Cache the
// subscriber needs.
type ConsumptionSink interface {
	Push(sample domain.LiveConsumption)
}

// Notifier reports invariant violations for operator visibility (spec §7's
// "Invariant violation" handling). Satisfied by internal/notify.Handler.
type Notifier interface {
	SendError(ctx context.Context, message string)
}

// LiveConsumptionSubscriber maintains a graphql-ws subscription to Tibber's
// live power measurement feed and pushes every sample into a ConsumptionSink.
// Restructured from opensqt_market_maker's pkg/websocket.Client reconnect
// loop (connect, read until error, sleep, reconnect) combined with
// original_source/clients/tibber_subscriber.rs's graphql-ws handshake
// (connection_init, wait for connection_ack, then subscribe).
type LiveConsumptionSubscriber struct {
	apiToken string
	homeID   string
	sink     ConsumptionSink
	notifier Notifier
}

// NewLiveConsumptionSubscriber builds a subscriber for the given home.
func NewLiveConsumptionSubscriber(apiToken, homeID string, sink ConsumptionSink) *LiveConsumptionSubscriber {
	return &LiveConsumptionSubscriber{apiToken: apiToken, homeID: homeID, sink: sink}
}

// SetNotifier wires an optional invariant-violation notifier. The default
// (nil) disables notifications without changing subscriber behavior.
func (s *LiveConsumptionSubscriber) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start runs the reconnect-forever loop until ctx is cancelled, backing
// off exponentially on repeated failures and resetting once a connection
// has stayed up for 5 minutes.
func (s *LiveConsumptionSubscriber) Start(ctx context.Context) {
	slog.Info("starting live consumption subscriber")
	b := newReconnectBackoff()
	for {
		select {
		case <-ctx.Done():
			slog.Info("live consumption subscriber stopping")
			return
		default:
		}

		connectedAt := time.Now()
		if err := s.runOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("live consumption subscriber lost connection, reconnecting", "error", err)
		}
		if time.Since(connectedAt) >= backoffStableAfter {
			b.Reset()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(b.NextBackOff()):
		}
	}
}

func (s *LiveConsumptionSubscriber) runOnce(ctx context.Context) error {
	dialer := websocket.Dialer{Subprotocols: []string{wsSubprotocol}}
	conn, _, err := dialer.DialContext(ctx, liveConsumptionURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(connectionInitMessage(s.apiToken)); err != nil {
		return fmt.Errorf("send connection_init: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(ackTimeout))
	var ack map[string]any
	if err := conn.ReadJSON(&ack); err != nil {
		return fmt.Errorf("read connection_ack: %w", err)
	}
	if ack["type"] != "connection_ack" {
		return fmt.Errorf("expected connection_ack, got %v", ack["type"])
	}
	_ = conn.SetReadDeadline(time.Time{})

	if err := conn.WriteJSON(subscribeMessage(s.homeID)); err != nil {
		return fmt.Errorf("send subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var msg liveMeasurementMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		if msg.Type != "next" {
			continue
		}

		timestamp, err := time.Parse(time.RFC3339, msg.Payload.Data.LiveMeasurement.Timestamp)
		if err != nil {
			slog.Warn("failed to parse live measurement timestamp, skipping", "error", err)
			s.notifyError(ctx, fmt.Sprintf("live consumption: unparseable timestamp %q", msg.Payload.Data.LiveMeasurement.Timestamp))
			continue
		}
		s.sink.Push(domain.LiveConsumption{
			Timestamp: timestamp,
			Power:     msg.Payload.Data.LiveMeasurement.Power,
		})
	}
}

func (s *LiveConsumptionSubscriber) notifyError(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.SendError(ctx, message)
}

func connectionInitMessage(apiToken string) map[string]any {
	return map[string]any{
		"type":    "connection_init",
		"payload": map[string]any{"token": apiToken},
	}
}

func subscribeMessage(homeID string) map[string]any {
	query := fmt.Sprintf(`subscription { liveMeasurement(homeId: "%s") { timestamp power } }`, homeID)
	return map[string]any{
		"id":   "1",
		"type": "subscribe",
		"payload": map[string]any{
			"variables":  map[string]any{},
			"extensions": map[string]any{},
			"query":      query,
		},
	}
}

type liveMeasurementMessage struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Payload struct {
		Data struct {
			LiveMeasurement struct {
				Timestamp string  `json:"timestamp"`
				Power     float64 `json:"power"`
			} `json:"liveMeasurement"`
		} `json:"data"`
	} `json:"payload"`
}
