package dispatcher

import (
	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	// EventRefresh requests an immediate control pass.
	EventRefresh EventKind = iota
	// EventPoll is the periodic ticker's re-evaluation request.
	EventPoll
	// EventTemp carries a new temperature reading for a room.
	EventTemp
	// EventButton carries a hardware button press, with its retry attempt.
	EventButton
)

// Event is the single message type accepted by Dispatcher.Enqueue. Only the
// fields relevant to Kind are populated; see the constructors below.
type Event struct {
	Kind EventKind

	// EventTemp
	RoomID uuid.UUID
	Temp   float64

	// EventButton
	ButtonID uuid.UUID
	Action   domain.Action
	Attempt  int
}

// Refresh builds an immediate-reevaluation event.
func Refresh() Event { return Event{Kind: EventRefresh} }

// Poll builds a periodic-reevaluation event.
func Poll() Event { return Event{Kind: EventPoll} }

// Temp builds a new-reading event for a room.
func Temp(roomID uuid.UUID, value float64) Event {
	return Event{Kind: EventTemp, RoomID: roomID, Temp: value}
}

// Button builds a button-press event at the given retry attempt (1-based).
func Button(buttonID uuid.UUID, action domain.Action, attempt int) Event {
	return Event{Kind: EventButton, ButtonID: buttonID, Action: action, Attempt: attempt}
}
