package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind distinguishes a temporary OFF override from an ON override,
// the latter optionally carrying its own target temperature.
type ActionKind string

const (
	ActionOff ActionKind = "OFF"
	ActionOn  ActionKind = "ON"
)

// TempActionType is a tagged variant: Kind selects which fields are
// meaningful, matching the enum-over-inheritance guidance in spec §9.
type TempActionType struct {
	Kind       ActionKind
	TargetTemp *float64 // only meaningful when Kind == ActionOn; nil means "just turn on"
}

// TempAction is a user-issued temporary override for one or more rooms.
// It is active iff StartsAt <= now < ExpiresAt (StartsAt nil means "already
// active").
type TempAction struct {
	ID         uuid.UUID
	RoomIDs    []uuid.UUID
	ActionType TempActionType
	StartsAt   *time.Time
	ExpiresAt  time.Time
}

// Validate enforces spec §3 invariant 2.
func (a TempAction) Validate() error {
	if len(a.RoomIDs) == 0 {
		return ErrEmptyRoomIDs
	}
	if a.StartsAt != nil && a.StartsAt.After(a.ExpiresAt) {
		return ErrInvalidTempAction
	}
	return nil
}

// IsActive reports whether the action is in effect at t.
func (a TempAction) IsActive(t time.Time) bool {
	if !t.Before(a.ExpiresAt) {
		return false
	}
	if a.StartsAt != nil && a.StartsAt.After(t) {
		return false
	}
	return true
}

// IsExpired reports whether the action is eligible for garbage collection
// per spec §3 invariant 3.
func (a TempAction) IsExpired(now time.Time) bool {
	return a.ExpiresAt.Before(now)
}

// HasRoom reports whether id is among the action's rooms.
func (a TempAction) HasRoom(id uuid.UUID) bool {
	for _, r := range a.RoomIDs {
		if r == id {
			return true
		}
	}
	return false
}
