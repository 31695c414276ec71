// Package memstore is an in-memory implementation of store.Store, used by
// the control-core tests and by single-process dry runs where a Postgres
// instance isn't worth standing up. It mirrors the mutex-guarded map
// pattern the teacher uses for its trade Recorder.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

// Store is a single mutex-guarded in-memory Store.
type Store struct {
	mu sync.Mutex

	rooms       map[uuid.UUID]domain.Room
	plugs       map[uuid.UUID]domain.Plug
	buttons     map[uuid.UUID]domain.Button
	sensors     map[string]domain.TempSensor
	schedules   map[uuid.UUID]domain.Schedule
	tempActions map[uuid.UUID]domain.TempAction
	tempLogs    []domain.TemperatureLog
	prices      map[int64]domain.PriceInfo // keyed by StartsAt.Unix(), hour-truncated
	notifySettings *domain.NotificationSettings
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		rooms:       make(map[uuid.UUID]domain.Room),
		plugs:       make(map[uuid.UUID]domain.Plug),
		buttons:     make(map[uuid.UUID]domain.Button),
		sensors:     make(map[string]domain.TempSensor),
		schedules:   make(map[uuid.UUID]domain.Schedule),
		tempActions: make(map[uuid.UUID]domain.TempAction),
		prices:      make(map[int64]domain.PriceInfo),
	}
}

// --- Rooms ---

func (s *Store) ListRooms(_ context.Context) ([]domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) GetRoom(_ context.Context, id uuid.UUID) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *Store) PutRoom(_ context.Context, r domain.Room) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
	return nil
}

func (s *Store) DeleteRoom(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.plugs {
		if p.RoomID == id {
			return errRoomHasPlugs
		}
	}
	delete(s.rooms, id)
	return nil
}

// --- Plugs ---

func (s *Store) ListPlugs(_ context.Context) ([]domain.Plug, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Plug, 0, len(s.plugs))
	for _, p := range s.plugs {
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) PlugsForRoom(_ context.Context, roomID uuid.UUID) ([]domain.Plug, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Plug
	for _, p := range s.plugs {
		if p.RoomID == roomID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) GetPlug(_ context.Context, id uuid.UUID) (*domain.Plug, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plugs[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) PutPlug(_ context.Context, p domain.Plug) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[p.RoomID]; !ok {
		return errNoSuchRoom
	}
	s.plugs[p.ID] = p
	return nil
}

func (s *Store) DeletePlug(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plugs, id)
	return nil
}

// --- Buttons ---

func (s *Store) ListButtons(_ context.Context) ([]domain.Button, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Button, 0, len(s.buttons))
	for _, b := range s.buttons {
		out = append(out, b)
	}
	return out, nil
}

func (s *Store) GetButton(_ context.Context, id uuid.UUID) (*domain.Button, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buttons[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s *Store) PutButton(_ context.Context, b domain.Button) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buttons[b.ID] = b
	return nil
}

func (s *Store) DeleteButton(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buttons, id)
	return nil
}

// --- TempSensors ---

func (s *Store) ListTempSensors(_ context.Context) ([]domain.TempSensor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TempSensor, 0, len(s.sensors))
	for _, sensor := range s.sensors {
		out = append(out, sensor)
	}
	return out, nil
}

func (s *Store) PutTempSensor(_ context.Context, sensor domain.TempSensor) error {
	if err := sensor.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensors[sensor.ID] = sensor
	return nil
}

func (s *Store) UpdateBatteryLevel(_ context.Context, id string, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sensor, ok := s.sensors[id]
	if !ok {
		return errNoSuchSensor
	}
	sensor.BatteryLevel = &level
	s.sensors[id] = sensor
	return nil
}

func (s *Store) DeleteTempSensor(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sensors, id)
	return nil
}

// --- Schedules ---

func (s *Store) ListSchedules(_ context.Context) ([]domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Schedule, 0, len(s.schedules))
	for _, sch := range s.schedules {
		out = append(out, sch)
	}
	return out, nil
}

func (s *Store) SchedulesForRoom(_ context.Context, roomID uuid.UUID) ([]domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Schedule
	for _, sch := range s.schedules {
		for _, r := range sch.RoomIDs {
			if r == roomID {
				out = append(out, sch)
				break
			}
		}
	}
	return out, nil
}

func (s *Store) GetSchedule(_ context.Context, id uuid.UUID) (*domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sch, ok := s.schedules[id]
	if !ok {
		return nil, nil
	}
	return &sch, nil
}

func (s *Store) PutSchedule(_ context.Context, sch domain.Schedule) error {
	if err := sch.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.schedules {
		if existing.ID == sch.ID {
			continue
		}
		if !sharesRoom(existing.RoomIDs, sch.RoomIDs) {
			continue
		}
		if overlaps(existing, sch) {
			return errOverlappingSchedule
		}
	}
	s.schedules[sch.ID] = sch
	return nil
}

func (s *Store) DeleteSchedule(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.schedules, id)
	return nil
}

// --- TempActions ---

func (s *Store) ListTempActions(_ context.Context) ([]domain.TempAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TempAction, 0, len(s.tempActions))
	for _, a := range s.tempActions {
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) PutTempAction(_ context.Context, a domain.TempAction) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tempActions[a.ID] = a
	return nil
}

func (s *Store) DeleteTempAction(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tempActions, id)
	return nil
}

// --- TemperatureLogs ---

func (s *Store) AppendTemperatureLog(_ context.Context, l domain.TemperatureLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.tempLogs {
		if existing.RoomID == l.RoomID && existing.Time.Equal(l.Time) {
			return errDuplicateTemperatureLog
		}
	}
	s.tempLogs = append(s.tempLogs, l)
	return nil
}

func (s *Store) LatestTemperatureLog(_ context.Context, roomID uuid.UUID) (*domain.TemperatureLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *domain.TemperatureLog
	for i := range s.tempLogs {
		l := s.tempLogs[i]
		if l.RoomID != roomID {
			continue
		}
		if latest == nil || l.Time.After(latest.Time) {
			latest = &l
		}
	}
	return latest, nil
}

func (s *Store) LatestTemperatureLogs(_ context.Context) (map[uuid.UUID]domain.TemperatureLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uuid.UUID]domain.TemperatureLog)
	for _, l := range s.tempLogs {
		existing, ok := out[l.RoomID]
		if !ok || l.Time.After(existing.Time) {
			out[l.RoomID] = l
		}
	}
	return out, nil
}

func (s *Store) TemperatureLogsForRoom(_ context.Context, roomID uuid.UUID, since time.Time) ([]domain.TemperatureLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TemperatureLog
	for _, l := range s.tempLogs {
		if l.RoomID == roomID && !l.Time.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}

// --- Prices ---

func (s *Store) InsertPrices(_ context.Context, prices []domain.PriceInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range prices {
		s.prices[p.StartsAt.Truncate(time.Hour).Unix()] = p
	}
	return nil
}

func (s *Store) PriceAt(_ context.Context, hour time.Time) (*domain.PriceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prices[hour.Truncate(time.Hour).Unix()]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) PricesFrom(_ context.Context, from time.Time) ([]domain.PriceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PriceInfo
	cut := from.Truncate(time.Hour).Unix()
	for ts, p := range s.prices {
		if ts >= cut {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- NotificationSettings ---

func (s *Store) GetNotificationSettings(_ context.Context) (*domain.NotificationSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifySettings, nil
}

func (s *Store) PutNotificationSettings(_ context.Context, set domain.NotificationSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifySettings = &set
	return nil
}

func sharesRoom(a, b []uuid.UUID) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func overlaps(a, b domain.Schedule) bool {
	sharedDay := false
	for d := range a.Days {
		if _, ok := b.Days[d]; ok {
			sharedDay = true
			break
		}
	}
	if !sharedDay {
		return false
	}
	for _, w1 := range a.Windows {
		for _, w2 := range b.Windows {
			if windowsOverlap(w1, w2) {
				return true
			}
		}
	}
	return false
}

func windowsOverlap(a, b domain.Window) bool {
	return a.From.Before(b.To) && b.From.Before(a.To)
}
