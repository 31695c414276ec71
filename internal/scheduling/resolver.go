// Package scheduling implements the schedule resolver (spec §4.C): given a
// room and a wall-clock time, find the at-most-one schedule that applies.
package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
	"github.com/madssf/smart-home/internal/pricelevel"
)

// ScheduleReader loads schedules assigned to a room. Satisfied by
// internal/store.
type ScheduleReader interface {
	SchedulesForRoom(ctx context.Context, roomID uuid.UUID) ([]domain.Schedule, error)
}

// Notifier reports invariant violations for operator visibility (spec §7's
// "Invariant violation" handling). Satisfied by internal/notify.Handler.
type Notifier interface {
	SendError(ctx context.Context, message string)
}

// Resolver resolves the matching schedule for a room at a given time.
type Resolver struct {
	schedules ScheduleReader
	notifier  Notifier
}

// New creates a Resolver backed by schedules.
func New(schedules ScheduleReader) *Resolver {
	return &Resolver{schedules: schedules}
}

// SetNotifier wires an optional invariant-violation notifier. The default
// (nil) disables notifications without changing resolution behavior.
func (r *Resolver) SetNotifier(n Notifier) {
	r.notifier = n
}

// Resolve returns the schedule assigned to roomID whose day set contains
// t.Weekday() and whose windows contain t's time-of-day, or nil if none
// match. Invariant §3.1 guarantees at most one match in well-formed data;
// if user error produces more than one, Resolve returns an arbitrary but
// deterministic pick (the lowest schedule ID) and logs a constraint
// violation.
func (r *Resolver) Resolve(ctx context.Context, roomID uuid.UUID, t time.Time) (*domain.Schedule, error) {
	schedules, err := r.schedules.SchedulesForRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	var matches []domain.Schedule
	for _, s := range schedules {
		if s.Matches(t) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].ID.String() < matches[j].ID.String()
		})
		slog.Warn("multiple schedules match room at time, picking deterministic fallback",
			"room_id", roomID, "time", t, "matched_schedules", len(matches))
		if r.notifier != nil {
			r.notifier.SendError(ctx, fmt.Sprintf("room %s: %d schedules matched at %s, using deterministic fallback",
				roomID, len(matches), t.Format(time.RFC3339)))
		}
		return &matches[0], nil
	}
}

// TargetTemp delegates to the price level model (spec §4.A).
func TargetTemp(s domain.Schedule, level domain.PriceLevel) (float64, bool) {
	return pricelevel.Target(s.Temps, level)
}
