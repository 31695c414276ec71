package domain

import (
	"time"

	"github.com/google/uuid"
)

// TempSensor is a battery-powered MQTT temperature sensor. Its ID is the
// vendor's own identifier string (e.g. a Zigbee IEEE address), not a
// generated UUID, since it must match the MQTT topic suffix verbatim.
type TempSensor struct {
	ID           string
	RoomID       uuid.UUID
	BatteryLevel *int
}

// Validate checks the invariants required before a TempSensor may be persisted.
func (s TempSensor) Validate() error {
	if s.ID == "" {
		return ErrEmptyName
	}
	return nil
}

// TemperatureLog is an append-only reading. The pair (RoomID, Time) is
// unique; retries after a write conflict must supply a fresh timestamp.
type TemperatureLog struct {
	RoomID uuid.UUID
	Time   time.Time
	Temp   float64
}
