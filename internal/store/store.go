// Package store defines the persistence contracts the control core and the
// CRUD handlers depend on. Concrete implementations live in
// internal/store/postgres (production, backed by pgx) and
// internal/store/memstore (tests and single-process dry runs).
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

// RoomStore is a durable map of Rooms.
type RoomStore interface {
	ListRooms(ctx context.Context) ([]domain.Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	PutRoom(ctx context.Context, r domain.Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

// PlugStore is a durable map of Plugs.
type PlugStore interface {
	ListPlugs(ctx context.Context) ([]domain.Plug, error)
	PlugsForRoom(ctx context.Context, roomID uuid.UUID) ([]domain.Plug, error)
	GetPlug(ctx context.Context, id uuid.UUID) (*domain.Plug, error)
	PutPlug(ctx context.Context, p domain.Plug) error
	DeletePlug(ctx context.Context, id uuid.UUID) error
}

// ButtonStore is a durable map of Buttons.
type ButtonStore interface {
	ListButtons(ctx context.Context) ([]domain.Button, error)
	GetButton(ctx context.Context, id uuid.UUID) (*domain.Button, error)
	PutButton(ctx context.Context, b domain.Button) error
	DeleteButton(ctx context.Context, id uuid.UUID) error
}

// TempSensorStore is a durable map of TempSensors.
type TempSensorStore interface {
	ListTempSensors(ctx context.Context) ([]domain.TempSensor, error)
	PutTempSensor(ctx context.Context, s domain.TempSensor) error
	UpdateBatteryLevel(ctx context.Context, id string, level int) error
	DeleteTempSensor(ctx context.Context, id string) error
}

// ScheduleStore is a durable map of Schedules.
type ScheduleStore interface {
	ListSchedules(ctx context.Context) ([]domain.Schedule, error)
	SchedulesForRoom(ctx context.Context, roomID uuid.UUID) ([]domain.Schedule, error)
	GetSchedule(ctx context.Context, id uuid.UUID) (*domain.Schedule, error)
	PutSchedule(ctx context.Context, s domain.Schedule) error
	DeleteSchedule(ctx context.Context, id uuid.UUID) error
}

// TempActionStore is a durable map of TempActions.
type TempActionStore interface {
	ListTempActions(ctx context.Context) ([]domain.TempAction, error)
	PutTempAction(ctx context.Context, a domain.TempAction) error
	DeleteTempAction(ctx context.Context, id uuid.UUID) error
}

// TemperatureLogStore is the append-only temperature reading log.
type TemperatureLogStore interface {
	AppendTemperatureLog(ctx context.Context, l domain.TemperatureLog) error
	LatestTemperatureLog(ctx context.Context, roomID uuid.UUID) (*domain.TemperatureLog, error)
	LatestTemperatureLogs(ctx context.Context) (map[uuid.UUID]domain.TemperatureLog, error)
	TemperatureLogsForRoom(ctx context.Context, roomID uuid.UUID, since time.Time) ([]domain.TemperatureLog, error)
}

// PriceStore persists hourly PriceInfo, upserted by starts_at.
type PriceStore interface {
	InsertPrices(ctx context.Context, prices []domain.PriceInfo) error
	PriceAt(ctx context.Context, hour time.Time) (*domain.PriceInfo, error)
	PricesFrom(ctx context.Context, from time.Time) ([]domain.PriceInfo, error)
}

// NotificationSettingsStore persists the singleton NotificationSettings.
type NotificationSettingsStore interface {
	GetNotificationSettings(ctx context.Context) (*domain.NotificationSettings, error)
	PutNotificationSettings(ctx context.Context, s domain.NotificationSettings) error
}

// Store is the union of all persistence contracts. Concrete
// implementations (internal/store/postgres.Store, internal/store/memstore.Store)
// satisfy the whole interface; individual components depend only on the
// narrow slice they need.
type Store interface {
	RoomStore
	PlugStore
	ButtonStore
	TempSensorStore
	ScheduleStore
	TempActionStore
	TemperatureLogStore
	PriceStore
	NotificationSettingsStore
}
