package domain

import "github.com/google/uuid"

// Room is a heated space with an optional absolute minimum temperature.
// When MinTemp is set it overrides all other ON/OFF logic upward: the
// room is never allowed to drop below it regardless of schedule or
// temporary action.
type Room struct {
	ID      uuid.UUID
	Name    string
	MinTemp *float64
}

// Validate checks the invariants required before a Room may be persisted.
func (r Room) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	return nil
}
