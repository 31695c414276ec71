// Package dispatcher implements the Work Dispatcher (spec §4.E): the
// single-consumer event loop that fuses periodic ticks, temperature
// telemetry, temporary overrides and button presses into relay commands.
// It is the sole writer of the relay-command path and the TemperatureLog
// append path; everything else in the system only ever reads or appends
// configuration through the store. Grounded on the teacher's Service.Start
// select loop (service/service.go) and the original WorkHandler's
// try_recv-then-handle loop.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/action"
	"github.com/madssf/smart-home/internal/domain"
	"github.com/madssf/smart-home/internal/scheduling"
	"github.com/madssf/smart-home/internal/store"
)

// queueCapacity is the inbound channel's buffer. Sized generously above
// the expected steady-state rate (one poll/minute, occasional refresh and
// button traffic) so producers never block on a healthy dispatcher.
const queueCapacity = 32

// maxButtonAttempts is the number of times a button command is retried
// before being dropped (spec §4.E, §8 scenario 5).
const maxButtonAttempts = 3

// PriceReader is the narrow slice of pricecache.Cache the dispatcher needs.
type PriceReader interface {
	CurrentPrice(ctx context.Context) (domain.PriceInfo, error)
}

// Notifier reports invariant violations for operator visibility (spec §7's
// "Invariant violation" handling). Satisfied by internal/notify.Handler.
type Notifier interface {
	SendError(ctx context.Context, message string)
}

// Dispatcher owns the event loop and all mutable control-core state. There
// is never more than one Start goroutine running per Dispatcher; this is
// the single-writer invariant the rest of the system relies on.
type Dispatcher struct {
	store    store.Store
	prices   PriceReader
	resolver *scheduling.Resolver
	relay    RelayClient
	now      func() time.Time
	notifier Notifier

	events chan Event
}

// New builds a Dispatcher. now defaults to time.Now if nil.
func New(st store.Store, prices PriceReader, relay RelayClient, now func() time.Time) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		store:    st,
		prices:   prices,
		resolver: scheduling.New(st),
		relay:    relay,
		now:      now,
		events:   make(chan Event, queueCapacity),
	}
}

// SetNotifier wires an optional invariant-violation notifier, also handing
// it to the schedule resolver. The default (nil) disables notifications
// without changing dispatch behavior.
func (d *Dispatcher) SetNotifier(n Notifier) {
	d.notifier = n
	d.resolver.SetNotifier(n)
}

func (d *Dispatcher) notifyError(ctx context.Context, message string) {
	if d.notifier == nil {
		return
	}
	d.notifier.SendError(ctx, message)
}

// Enqueue submits an event, blocking until the channel has room or ctx is
// done. Producers (HTTP routes, the MQTT subscriber, the poll ticker) all
// go through this single entry point.
func (d *Dispatcher) Enqueue(ctx context.Context, e Event) error {
	select {
	case d.events <- e:
		queueDepth.Set(float64(len(d.events)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueTemp is a convenience wrapper around Enqueue for producers that
// only ever submit temperature readings, letting Dispatcher satisfy
// clients/mqtt.TempEnqueuer directly.
func (d *Dispatcher) EnqueueTemp(ctx context.Context, roomID uuid.UUID, temp float64) error {
	return d.Enqueue(ctx, Temp(roomID, temp))
}

// Start runs the event loop until ctx is cancelled. On cancellation no new
// events are accepted by the caller's own producers (they should stop
// enqueueing), the in-flight pass completes, and Start returns.
func (d *Dispatcher) Start(ctx context.Context) {
	slog.Info("starting work dispatcher")
	for {
		select {
		case <-ctx.Done():
			slog.Info("work dispatcher draining and stopping")
			return
		case e := <-d.events:
			queueDepth.Set(float64(len(d.events)))
			d.handle(ctx, e)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, e Event) {
	switch e.Kind {
	case EventRefresh, EventPoll:
		d.controlPass(ctx)
	case EventTemp:
		d.handleTemp(ctx, e)
	case EventButton:
		d.handleButton(ctx, e)
	}
}

// handleTemp appends the reading then synchronously re-enqueues a Refresh,
// per spec §4.E. The channel is large enough that this self-send never
// blocks in practice; it is not treated as the terminal failure mode.
func (d *Dispatcher) handleTemp(ctx context.Context, e Event) {
	log := domain.TemperatureLog{RoomID: e.RoomID, Time: d.now(), Temp: e.Temp}
	if err := d.store.AppendTemperatureLog(ctx, log); err != nil {
		slog.Error("failed to append temperature log", "room_id", e.RoomID, "error", err)
		return
	}
	if err := d.Enqueue(ctx, Refresh()); err != nil {
		slog.Warn("failed to enqueue refresh after temperature reading", "error", err)
	}
}

// handleButton fetches the Button and commands the relay for each of the
// plugs it actuates, using each plug's own network address and
// credentials (spec data model: network identity lives on the Plug; the
// Button only records which plugs it toggles). A failure on any plug
// triggers a retry of the whole button press, up to maxButtonAttempts.
func (d *Dispatcher) handleButton(ctx context.Context, e Event) {
	button, err := d.store.GetButton(ctx, e.ButtonID)
	if err != nil {
		slog.Error("failed to load button", "button_id", e.ButtonID, "error", err)
		return
	}
	if button == nil {
		slog.Warn("button press for unknown button, dropping", "button_id", e.ButtonID)
		d.notifyError(ctx, fmt.Sprintf("button %s pressed but no longer exists", e.ButtonID))
		return
	}

	anyFailed := false
	for _, plugID := range button.PlugIDs {
		plug, err := d.store.GetPlug(ctx, plugID)
		if err != nil {
			slog.Error("failed to load plug for button", "button_id", e.ButtonID, "plug_id", plugID, "error", err)
			anyFailed = true
			continue
		}
		if plug == nil {
			slog.Warn("button references unknown plug, skipping", "button_id", e.ButtonID, "plug_id", plugID)
			d.notifyError(ctx, fmt.Sprintf("button %s references plug %s which no longer exists", e.ButtonID, plugID))
			continue
		}
		if err := d.relay.Command(ctx, plug.Host, plug.Username, plug.Password, e.Action); err != nil {
			slog.Error("relay command failed for button plug", "button_id", e.ButtonID, "plug_id", plugID, "action", e.Action, "error", err)
			relayCommandsTotal.WithLabelValues(string(e.Action), "error").Inc()
			anyFailed = true
			continue
		}
		relayCommandsTotal.WithLabelValues(string(e.Action), "ok").Inc()
	}

	if !anyFailed {
		return
	}
	if e.Attempt < maxButtonAttempts {
		retry := Button(e.ButtonID, e.Action, e.Attempt+1)
		if err := d.Enqueue(ctx, retry); err != nil {
			slog.Warn("failed to enqueue button retry", "button_id", e.ButtonID, "error", err)
		}
		return
	}
	slog.Error("button command failed after max attempts, dropping", "button_id", e.ButtonID, "attempts", e.Attempt)
}

// controlPass is one invocation of the Work Dispatcher's main handler,
// from event receipt to command dispatch completion (spec §4.E).
func (d *Dispatcher) controlPass(ctx context.Context) {
	start := time.Now()
	if err := d.runControlPass(ctx); err != nil {
		slog.Error("control pass failed", "error", err)
		passesTotal.WithLabelValues("error").Inc()
	} else {
		passesTotal.WithLabelValues("ok").Inc()
	}
	passDuration.Observe(time.Since(start).Seconds())
}

func (d *Dispatcher) runControlPass(ctx context.Context) error {
	now := d.now()

	price, err := d.prices.CurrentPrice(ctx)
	if err != nil {
		return err
	}

	actionsByRoom, err := d.activeActionsByRoom(ctx, now)
	if err != nil {
		return err
	}

	rooms, err := d.store.ListRooms(ctx)
	if err != nil {
		return err
	}
	latestTemps, err := d.store.LatestTemperatureLogs(ctx)
	if err != nil {
		return err
	}

	for _, room := range rooms {
		var currentTemp *domain.TemperatureLog
		if t, ok := latestTemps[room.ID]; ok {
			currentTemp = &t
		}

		schedule, err := d.resolver.Resolve(ctx, room.ID, now)
		if err != nil {
			slog.Error("failed to resolve schedule", "room_id", room.ID, "error", err)
			continue
		}

		decision := action.Resolve(action.Input{
			Now:           now,
			Price:         price,
			Room:          room,
			CurrentTemp:   currentTemp,
			ActiveActions: actionsByRoom[room.ID],
			Schedule:      schedule,
		})

		d.dispatchRoom(ctx, room, decision)
	}
	return nil
}

// dispatchRoom commands every scheduled plug in the room. A per-plug relay
// failure is logged and does not abort the pass (spec §4.E failure
// semantics).
func (d *Dispatcher) dispatchRoom(ctx context.Context, room domain.Room, decision domain.Action) {
	plugs, err := d.store.PlugsForRoom(ctx, room.ID)
	if err != nil {
		slog.Error("failed to load plugs for room", "room_id", room.ID, "error", err)
		return
	}
	for _, plug := range plugs {
		if !plug.Scheduled {
			continue
		}
		if err := d.relay.Command(ctx, plug.Host, plug.Username, plug.Password, decision); err != nil {
			slog.Error("relay command failed", "room_id", room.ID, "plug_id", plug.ID, "action", decision, "error", err)
			relayCommandsTotal.WithLabelValues(string(decision), "error").Inc()
			continue
		}
		relayCommandsTotal.WithLabelValues(string(decision), "ok").Inc()
	}
}

// activeActionsByRoom loads every TempAction, garbage-collecting expired
// ones and excluding not-yet-started ones, then groups the remainder by
// room, sorted ascending by ExpiresAt (spec §4.E step 3-5a).
func (d *Dispatcher) activeActionsByRoom(ctx context.Context, now time.Time) (map[uuid.UUID][]domain.TempAction, error) {
	all, err := d.store.ListTempActions(ctx)
	if err != nil {
		return nil, err
	}

	byRoom := make(map[uuid.UUID][]domain.TempAction)
	for _, a := range all {
		if a.ExpiresAt.Before(now) {
			if err := d.store.DeleteTempAction(ctx, a.ID); err != nil {
				slog.Error("failed to garbage-collect expired temp action", "temp_action_id", a.ID, "error", err)
			}
			continue
		}
		if a.StartsAt != nil && a.StartsAt.After(now) {
			continue
		}
		for _, roomID := range a.RoomIDs {
			byRoom[roomID] = append(byRoom[roomID], a)
		}
	}

	for roomID := range byRoom {
		actions := byRoom[roomID]
		sort.Slice(actions, func(i, j int) bool { return actions[i].ExpiresAt.Before(actions[j].ExpiresAt) })
		byRoom[roomID] = actions
	}
	return byRoom, nil
}
