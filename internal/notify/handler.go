// Package notify implements the notification side-channel (spec §4.B's
// notification gate): consuming consumption.Probe triggers, checking
// NotificationSettings, and publishing through an ntfy-style client with
// a per-kind debounce. Grounded on
// original_source/service/notifications.rs's NotificationHandler —
// the same receive-loop-then-gate shape, restructured around a Go channel
// instead of a try_recv poll loop.
package notify

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/madssf/smart-home/internal/consumption"
	"github.com/madssf/smart-home/internal/store"
)

// MessageKind tags the debounce bucket a notification belongs to.
type MessageKind int

const (
	KindConsumption MessageKind = iota
	KindStartup
	KindError
)

// invariantDebounce is the rate-limit window for startup and error
// notifications (original_source/service/notifications.rs's last_sent
// map uses the same 15-minute window for every non-consumption kind).
const invariantDebounce = 15 * time.Minute

// Publisher is the narrow slice of clients/notify.Client the handler needs.
type Publisher interface {
	Publish(ctx context.Context, topic, message string) error
}

// Handler owns the per-kind last-sent debounce map. The map is shared by
// Start's goroutine and the goroutines that call SendStartup/SendError, so
// every access goes through the mutex.
type Handler struct {
	publisher Publisher
	settings  store.NotificationSettingsStore
	now       func() time.Time

	mu       sync.Mutex
	lastSent map[MessageKind]time.Time
}

// New builds a Handler. now defaults to time.Now if nil.
func New(publisher Publisher, settings store.NotificationSettingsStore, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		publisher: publisher,
		settings:  settings,
		now:       now,
		lastSent:  make(map[MessageKind]time.Time),
	}
}

// Start drains probes until ctx is cancelled or the channel is closed.
func (h *Handler) Start(ctx context.Context, probes <-chan consumption.Probe) {
	slog.Info("starting notification handler")
	for {
		select {
		case <-ctx.Done():
			slog.Info("notification handler stopping")
			return
		case probe, ok := <-probes:
			if !ok {
				return
			}
			h.handleConsumption(ctx, probe)
		}
	}
}

func (h *Handler) handleConsumption(ctx context.Context, probe consumption.Probe) {
	settings, err := h.settings.GetNotificationSettings(ctx)
	if err != nil {
		slog.Error("failed to load notification settings", "error", err)
		return
	}
	if settings == nil {
		slog.Debug("no notification settings configured, dropping probe")
		return
	}
	if settings.MaxConsumption == nil || probe.WattUsage <= *settings.MaxConsumption {
		return
	}

	timeout := time.Duration(settings.MaxConsumptionTimeoutMinutes) * time.Minute
	h.send(ctx, settings.NtfyTopic, KindConsumption, timeout, consumptionMessage(probe.WattUsage))
}

// SendStartup publishes a one-time notification that the controller has
// come up, debounced against repeated restarts within the window.
func (h *Handler) SendStartup(ctx context.Context) {
	settings, err := h.settings.GetNotificationSettings(ctx)
	if err != nil {
		slog.Error("failed to load notification settings", "error", err)
		return
	}
	if settings == nil {
		return
	}
	h.send(ctx, settings.NtfyTopic, KindStartup, invariantDebounce, "heatd started")
}

// SendError publishes an invariant-violation or subsystem error
// notification (spec's "Invariant violation" handling), debounced so a
// noisy failure loop sends at most one push per window.
func (h *Handler) SendError(ctx context.Context, message string) {
	settings, err := h.settings.GetNotificationSettings(ctx)
	if err != nil {
		slog.Error("failed to load notification settings", "error", err)
		return
	}
	if settings == nil {
		return
	}
	h.send(ctx, settings.NtfyTopic, KindError, invariantDebounce, "⚠️ "+message)
}

// send applies the per-kind debounce and publishes message if due.
func (h *Handler) send(ctx context.Context, topic string, kind MessageKind, timeout time.Duration, message string) {
	now := h.now()
	h.mu.Lock()
	last, sentBefore := h.lastSent[kind]
	if sentBefore && now.Sub(last) <= timeout {
		h.mu.Unlock()
		return
	}
	h.lastSent[kind] = now
	h.mu.Unlock()

	if err := h.publisher.Publish(ctx, topic, message); err != nil {
		slog.Warn("failed to publish notification", "kind", kind, "error", err)
		return
	}
	slog.Info("notification published", "kind", kind)
}

func consumptionMessage(wattUsage float64) string {
	return "⚡️Current consumption " + strconv.FormatInt(int64(wattUsage), 10) + " W!️"
}
