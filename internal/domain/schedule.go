package domain

import (
	"time"

	"github.com/google/uuid"
)

// Window is a half-open time-of-day range [From, To). Only the
// hour/minute/second components are significant; the date is ignored.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t's time-of-day falls in [From, To).
func (w Window) Contains(t time.Time) bool {
	tod := timeOfDay(t)
	from := timeOfDay(w.From)
	to := timeOfDay(w.To)
	return !tod.Before(from) && tod.Before(to)
}

func (w Window) overlaps(other Window) bool {
	from, to := timeOfDay(w.From), timeOfDay(w.To)
	oFrom, oTo := timeOfDay(other.From), timeOfDay(other.To)
	return from.Before(oTo) && oFrom.Before(to)
}

// Overlaps reports whether w and other cover any common time-of-day,
// ignoring date. Exported for cross-schedule conflict checks outside this
// package (handler's non-overlap invariant across distinct schedules);
// Validate uses the unexported form for windows within one schedule.
func (w Window) Overlaps(other Window) bool {
	return w.overlaps(other)
}

// timeOfDay projects t onto a fixed reference date so only hour/minute/second
// participate in comparisons.
func timeOfDay(t time.Time) time.Time {
	return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// Schedule maps a PriceLevel to a target temperature for a set of rooms,
// active on a set of weekdays during a set of non-overlapping windows.
type Schedule struct {
	ID      uuid.UUID
	Days    map[time.Weekday]struct{}
	Windows []Window
	RoomIDs []uuid.UUID
	Temps   map[PriceLevel]float64
}

// Validate enforces spec §3 invariant 1 (non-overlapping windows within one
// schedule) plus the non-empty constraints on days/windows/rooms/temps.
func (s Schedule) Validate() error {
	if len(s.Days) == 0 {
		return ErrEmptyDays
	}
	if len(s.Windows) == 0 {
		return ErrEmptyWindows
	}
	if len(s.RoomIDs) == 0 {
		return ErrEmptyRoomIDs
	}
	if len(s.Temps) == 0 {
		return ErrEmptyTemps
	}
	for _, w := range s.Windows {
		if !timeOfDay(w.From).Before(timeOfDay(w.To)) {
			return ErrInvalidWindow
		}
	}
	for i := 0; i < len(s.Windows); i++ {
		for j := i + 1; j < len(s.Windows); j++ {
			if s.Windows[i].overlaps(s.Windows[j]) {
				return ErrOverlappingWindow
			}
		}
	}
	return nil
}

// Matches reports whether t's weekday is in Days and its time-of-day falls
// in at least one Window.
func (s Schedule) Matches(t time.Time) bool {
	if _, ok := s.Days[t.Weekday()]; !ok {
		return false
	}
	for _, w := range s.Windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}
