package mqtt

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

type fakeEnqueuer struct {
	rooms []uuid.UUID
	temps []float64
}

func (f *fakeEnqueuer) EnqueueTemp(_ context.Context, roomID uuid.UUID, temp float64) error {
	f.rooms = append(f.rooms, roomID)
	f.temps = append(f.temps, temp)
	return nil
}

type fakeSensorStore struct {
	sensors []domain.TempSensor
	updated map[string]int
}

func newFakeSensorStore(sensors ...domain.TempSensor) *fakeSensorStore {
	return &fakeSensorStore{sensors: sensors, updated: make(map[string]int)}
}

func (f *fakeSensorStore) ListTempSensors(_ context.Context) ([]domain.TempSensor, error) {
	return f.sensors, nil
}

func (f *fakeSensorStore) GetTempSensor(_ context.Context, id string) (domain.TempSensor, error) {
	for _, s := range f.sensors {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.TempSensor{}, nil
}

func (f *fakeSensorStore) PutTempSensor(_ context.Context, s domain.TempSensor) error {
	f.sensors = append(f.sensors, s)
	return nil
}

func (f *fakeSensorStore) UpdateBatteryLevel(_ context.Context, id string, level int) error {
	f.updated[id] = level
	for i, s := range f.sensors {
		if s.ID == id {
			f.sensors[i].BatteryLevel = &level
		}
	}
	return nil
}

func (f *fakeSensorStore) DeleteTempSensor(_ context.Context, id string) error {
	for i, s := range f.sensors {
		if s.ID == id {
			f.sensors = append(f.sensors[:i], f.sensors[i+1:]...)
			return nil
		}
	}
	return nil
}

func TestSensorSetChanged_SameSetIsUnchanged(t *testing.T) {
	roomID := uuid.New()
	subscribed := map[string]domain.TempSensor{
		"livingroom/sensor-1": {ID: "sensor-1", RoomID: roomID},
	}
	current := []domain.TempSensor{{ID: "sensor-1", RoomID: roomID}}

	if sensorSetChanged(subscribed, current) {
		t.Fatal("expected no change when the sensor set is identical")
	}
}

func TestSensorSetChanged_AddedSensorDetected(t *testing.T) {
	roomID := uuid.New()
	subscribed := map[string]domain.TempSensor{
		"livingroom/sensor-1": {ID: "sensor-1", RoomID: roomID},
	}
	current := []domain.TempSensor{
		{ID: "sensor-1", RoomID: roomID},
		{ID: "sensor-2", RoomID: roomID},
	}

	if !sensorSetChanged(subscribed, current) {
		t.Fatal("expected a newly added sensor to trigger a restart")
	}
}

func TestSensorSetChanged_RemovedSensorDetected(t *testing.T) {
	roomID := uuid.New()
	subscribed := map[string]domain.TempSensor{
		"livingroom/sensor-1": {ID: "sensor-1", RoomID: roomID},
		"livingroom/sensor-2": {ID: "sensor-2", RoomID: roomID},
	}
	current := []domain.TempSensor{{ID: "sensor-1", RoomID: roomID}}

	if !sensorSetChanged(subscribed, current) {
		t.Fatal("expected a removed sensor to trigger a restart")
	}
}

func TestHandleMessage_UpdatesBatteryOnlyWhenChanged(t *testing.T) {
	roomID := uuid.New()
	battery := 80
	sensor := domain.TempSensor{ID: "sensor-1", RoomID: roomID, BatteryLevel: &battery}
	store := newFakeSensorStore(sensor)
	enq := &fakeEnqueuer{}
	s := New(Config{BaseTopic: "zigbee2mqtt"}, store, enq)

	byTopic := map[string]domain.TempSensor{"zigbee2mqtt/sensor-1": sensor}
	restart := make(chan struct{}, 1)

	s.handleMessage(context.Background(), byTopic, fakeMessage{
		topic:   "zigbee2mqtt/sensor-1",
		payload: []byte(`{"temperature": 21.5, "battery": 80}`),
	}, restart)

	if len(store.updated) != 0 {
		t.Fatalf("expected no battery update when the level is unchanged, got %v", store.updated)
	}
	if len(enq.temps) != 1 || enq.temps[0] != 21.5 {
		t.Fatalf("expected a single 21.5 reading enqueued, got %v", enq.temps)
	}
	if len(enq.rooms) != 1 || enq.rooms[0] != roomID {
		t.Fatalf("expected the reading enqueued against %s, got %v", roomID, enq.rooms)
	}

	s.handleMessage(context.Background(), byTopic, fakeMessage{
		topic:   "zigbee2mqtt/sensor-1",
		payload: []byte(`{"temperature": 21.6, "battery": 75}`),
	}, restart)

	if got := store.updated["sensor-1"]; got != 75 {
		t.Fatalf("expected battery updated to 75, got %d", got)
	}
}

func TestHandleMessage_UnknownTopicIsIgnored(t *testing.T) {
	store := newFakeSensorStore()
	enq := &fakeEnqueuer{}
	s := New(Config{BaseTopic: "zigbee2mqtt"}, store, enq)

	s.handleMessage(context.Background(), map[string]domain.TempSensor{}, fakeMessage{
		topic:   "zigbee2mqtt/unknown",
		payload: []byte(`{"temperature": 10}`),
	}, make(chan struct{}, 1))

	if len(enq.temps) != 0 {
		t.Fatal("expected no reading enqueued for an unrecognized topic")
	}
}

func TestHandleMessage_TriggersRestartOnSensorSetChange(t *testing.T) {
	roomID := uuid.New()
	sensor := domain.TempSensor{ID: "sensor-1", RoomID: roomID}
	store := newFakeSensorStore(sensor, domain.TempSensor{ID: "sensor-2", RoomID: roomID})
	enq := &fakeEnqueuer{}
	s := New(Config{BaseTopic: "zigbee2mqtt"}, store, enq)

	byTopic := map[string]domain.TempSensor{"zigbee2mqtt/sensor-1": sensor}
	restart := make(chan struct{}, 1)

	s.handleMessage(context.Background(), byTopic, fakeMessage{
		topic:   "zigbee2mqtt/sensor-1",
		payload: []byte(`{"temperature": 19.0, "battery": 90}`),
	}, restart)

	select {
	case <-restart:
	default:
		t.Fatal("expected a restart signal once the store reports an extra sensor")
	}
}

// fakeMessage implements paho.mqtt.golang's Message interface; handleMessage
// reads only Topic and Payload.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}
