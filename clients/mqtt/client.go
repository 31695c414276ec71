// Package mqtt is the sensor telemetry subscriber: it listens on
// {base_topic}/{sensor_id} for every configured TempSensor, turns each
// payload into a room temperature reading, and restarts its subscription
// whenever the configured sensor set changes. Restructured from
// original_source/clients/mqtt.rs's subscribe_loop (rumqttc) onto
// paho.mqtt.golang, keeping the same outer "log the failure, reconnect"
// restart loop the teacher uses in clients/marstek for reconnects, now with
// an exponential backoff (2s -> 60s cap, reset after a stable connection)
// in place of the original subscribe_loop's flat retry sleep.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
	"github.com/madssf/smart-home/internal/store"
)

const (
	keepAlive = 15 * time.Second

	backoffInitial     = 2 * time.Second
	backoffMax         = 60 * time.Second
	backoffStableAfter = 5 * time.Minute
)

// newReconnectBackoff builds the exponential backoff the restart loop
// uses for transient I/O failures (spec §7): 2s initial, 60s cap, no
// elapsed-time limit since a subscriber retries forever.
func newReconnectBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = backoffInitial
	b.MaxInterval = backoffMax
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Config describes the broker connection and topic namespace.
type Config struct {
	Host      string
	Port      int
	ClientID  string
	BaseTopic string
}

// TempEnqueuer is the narrow slice of dispatcher.Dispatcher the subscriber
// needs: turning a parsed reading into a Temp event.
type TempEnqueuer interface {
	EnqueueTemp(ctx context.Context, roomID uuid.UUID, temp float64) error
}

// Notifier reports invariant violations for operator visibility (spec §7's
// "Invariant violation" handling). Satisfied by internal/notify.Handler.
type Notifier interface {
	SendError(ctx context.Context, message string)
}

// sensorPayload mirrors the zigbee2mqtt-style JSON payload sensors publish.
// Only Temperature and Battery are consumed; the rest are accepted so an
// unexpected extra field never fails parsing.
type sensorPayload struct {
	Battery     int     `json:"battery"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity,omitempty"`
	Voltage     int     `json:"voltage,omitempty"`
	LinkQuality int     `json:"linkquality,omitempty"`
}

// Subscriber owns one MQTT connection at a time, resubscribing to a fresh
// topic set whenever TempSensors change.
type Subscriber struct {
	cfg      Config
	sensors  store.TempSensorStore
	enqueuer TempEnqueuer
	notifier Notifier
}

// New builds a Subscriber.
func New(cfg Config, sensors store.TempSensorStore, enqueuer TempEnqueuer) *Subscriber {
	return &Subscriber{cfg: cfg, sensors: sensors, enqueuer: enqueuer}
}

// SetNotifier wires an optional invariant-violation notifier. The default
// (nil) disables notifications without changing subscriber behavior.
func (s *Subscriber) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start runs until ctx is cancelled, restarting the underlying connection
// on any error (including a changed sensor set) with an exponential
// backoff that resets once a connection has stayed up for 5 minutes.
func (s *Subscriber) Start(ctx context.Context) {
	slog.Info("starting mqtt subscriber")
	b := newReconnectBackoff()
	for {
		select {
		case <-ctx.Done():
			slog.Info("mqtt subscriber stopping")
			return
		default:
		}

		connectedAt := time.Now()
		if err := s.runOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("mqtt subscriber quit unexpectedly, restarting", "error", err)
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

// runOnce connects, subscribes to every configured sensor's topic, and
// blocks until ctx is cancelled or the sensor set changes underneath it.
func (s *Subscriber) runOnce(ctx context.Context) error {
	sensors, err := s.sensors.ListTempSensors(ctx)
	if err != nil {
		return fmt.Errorf("list temp sensors: %w", err)
	}
	if len(sensors) == 0 {
		slog.Info("no sensors configured, mqtt subscriber idle")
		<-ctx.Done()
		return ctx.Err()
	}

	byTopic := make(map[string]domain.TempSensor, len(sensors))
	for _, sn := range sensors {
		byTopic[s.cfg.BaseTopic+"/"+sn.ID] = sn
	}

	restart := make(chan struct{}, 1)

	opts := pahomqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", s.cfg.Host, s.cfg.Port)).
		SetClientID(s.cfg.ClientID).
		SetKeepAlive(keepAlive).
		SetAutoReconnect(false).
		SetDefaultPublishHandler(func(_ pahomqtt.Client, msg pahomqtt.Message) {
			s.handleMessage(ctx, byTopic, msg, restart)
		})

	client := pahomqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to broker: %w", token.Error())
	}
	defer client.Disconnect(250)

	filters := make(map[string]byte, len(byTopic))
	for topic := range byTopic {
		filters[topic] = 0 // QoS at-most-once: a dropped reading is replaced by the next poll.
	}
	if token := client.SubscribeMultiple(filters, nil); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to sensor topics: %w", token.Error())
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-restart:
		slog.Info("sensor set changed, restarting mqtt subscriber")
		return nil
	}
}

func (s *Subscriber) handleMessage(ctx context.Context, byTopic map[string]domain.TempSensor, msg pahomqtt.Message, restart chan<- struct{}) {
	sensor, ok := byTopic[msg.Topic()]
	if !ok {
		slog.Warn("mqtt message on unrecognized topic", "topic", msg.Topic())
		s.notifyError(ctx, fmt.Sprintf("mqtt message on unrecognized topic %q", msg.Topic()))
		return
	}

	var payload sensorPayload
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		slog.Warn("failed to parse sensor payload", "topic", msg.Topic(), "error", err)
		return
	}

	if sensor.BatteryLevel == nil || *sensor.BatteryLevel != payload.Battery {
		slog.Info("updating sensor battery level", "sensor_id", sensor.ID, "battery", payload.Battery)
		if err := s.sensors.UpdateBatteryLevel(ctx, sensor.ID, payload.Battery); err != nil {
			slog.Error("failed to update battery level", "sensor_id", sensor.ID, "error", err)
		}
	}

	if err := s.enqueuer.EnqueueTemp(ctx, sensor.RoomID, payload.Temperature); err != nil {
		slog.Error("failed to enqueue temperature reading", "room_id", sensor.RoomID, "error", err)
	}

	current, err := s.sensors.ListTempSensors(ctx)
	if err != nil {
		slog.Error("failed to re-check sensor set", "error", err)
		return
	}
	if sensorSetChanged(byTopic, current) {
		select {
		case restart <- struct{}{}:
		default:
		}
	}
}

func (s *Subscriber) notifyError(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.SendError(ctx, message)
}

func sensorSetChanged(subscribed map[string]domain.TempSensor, current []domain.TempSensor) bool {
	if len(current) != len(subscribed) {
		return true
	}
	seen := make(map[string]struct{}, len(subscribed))
	for _, sn := range subscribed {
		seen[sn.ID] = struct{}{}
	}
	for _, sn := range current {
		if _, ok := seen[sn.ID]; !ok {
			return true
		}
	}
	return false
}
