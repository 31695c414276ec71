package action

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/madssf/smart-home/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func tempLog(roomID uuid.UUID, temp float64) *domain.TemperatureLog {
	return &domain.TemperatureLog{RoomID: roomID, Time: time.Now(), Temp: temp}
}

func normalPrice() domain.PriceInfo {
	return domain.PriceInfo{
		Amount:        decimal.NewFromFloat(1.0),
		ExtPriceLevel: domain.Normal,
	}
}

func TestResolve_NoReading_ReturnsOff(t *testing.T) {
	room := domain.Room{ID: uuid.New()}
	got := Resolve(Input{Now: time.Now(), Price: normalPrice(), Room: room, CurrentTemp: nil})
	assert.Equal(t, domain.Off, got, "expected OFF with no reading")
}

func TestResolve_MinTempFloor_Scenario1(t *testing.T) {
	room := domain.Room{ID: uuid.New(), MinTemp: ptr(22.0)}
	got := Resolve(Input{
		Now:         time.Now(),
		Price:       normalPrice(),
		Room:        room,
		CurrentTemp: tempLog(room.ID, 14.0),
	})
	assert.Equal(t, domain.On, got, "expected ON below min_temp floor")
}

func TestResolve_MinTempDominatesEverything(t *testing.T) {
	room := domain.Room{ID: uuid.New(), MinTemp: ptr(22.0)}
	exp := time.Now().Add(time.Hour)
	actions := []domain.TempAction{{
		ID: uuid.New(), RoomIDs: []uuid.UUID{room.ID},
		ActionType: domain.TempActionType{Kind: domain.ActionOff},
		ExpiresAt:  exp,
	}}
	got := Resolve(Input{
		Now: time.Now(), Price: normalPrice(), Room: room,
		CurrentTemp: tempLog(room.ID, 14.0), ActiveActions: actions,
	})
	assert.Equal(t, domain.On, got, "expected min_temp to dominate an OFF action")
}

func TestResolve_TempActionOffWins_Scenario2(t *testing.T) {
	room := domain.Room{ID: uuid.New()}
	schedule := &domain.Schedule{
		ID:    uuid.New(),
		Temps: map[domain.PriceLevel]float64{domain.Normal: 21.0},
	}
	actions := []domain.TempAction{{
		ID: uuid.New(), RoomIDs: []uuid.UUID{room.ID},
		ActionType: domain.TempActionType{Kind: domain.ActionOff},
		ExpiresAt:  time.Now().Add(time.Hour),
	}}
	got := Resolve(Input{
		Now: time.Now(), Price: normalPrice(), Room: room,
		CurrentTemp: tempLog(room.ID, 18.0), ActiveActions: actions, Schedule: schedule,
	})
	assert.Equal(t, domain.Off, got, "expected temp action OFF to win over schedule")
}

func TestResolve_TempActionOnWithTarget_Scenario3(t *testing.T) {
	room := domain.Room{ID: uuid.New()}
	target := 24.0
	actions := []domain.TempAction{{
		ID: uuid.New(), RoomIDs: []uuid.UUID{room.ID},
		ActionType: domain.TempActionType{Kind: domain.ActionOn, TargetTemp: &target},
		ExpiresAt:  time.Now().Add(time.Hour),
	}}

	got := Resolve(Input{Now: time.Now(), Price: normalPrice(), Room: room,
		CurrentTemp: tempLog(room.ID, 20.0), ActiveActions: actions})
	assert.Equal(t, domain.On, got, "expected ON below target")

	got = Resolve(Input{Now: time.Now(), Price: normalPrice(), Room: room,
		CurrentTemp: tempLog(room.ID, 24.5), ActiveActions: actions})
	assert.Equal(t, domain.Off, got, "expected OFF at/above target")
}

func TestResolve_TempActionOnWithoutTarget_AlwaysOn(t *testing.T) {
	room := domain.Room{ID: uuid.New()}
	actions := []domain.TempAction{{
		ID: uuid.New(), RoomIDs: []uuid.UUID{room.ID},
		ActionType: domain.TempActionType{Kind: domain.ActionOn},
		ExpiresAt:  time.Now().Add(time.Hour),
	}}
	got := Resolve(Input{Now: time.Now(), Price: normalPrice(), Room: room,
		CurrentTemp: tempLog(room.ID, 30.0), ActiveActions: actions})
	assert.Equal(t, domain.On, got, "expected ON(nil target) to always heat")
}

func TestResolve_EarliestExpiringActionWins(t *testing.T) {
	room := domain.Room{ID: uuid.New()}
	now := time.Now()
	earlier := domain.TempAction{
		ID: uuid.New(), RoomIDs: []uuid.UUID{room.ID},
		ActionType: domain.TempActionType{Kind: domain.ActionOff},
		ExpiresAt:  now.Add(10 * time.Minute),
	}
	later := domain.TempAction{
		ID: uuid.New(), RoomIDs: []uuid.UUID{room.ID},
		ActionType: domain.TempActionType{Kind: domain.ActionOn},
		ExpiresAt:  now.Add(time.Hour),
	}
	got := Resolve(Input{
		Now: now, Price: normalPrice(), Room: room,
		CurrentTemp: tempLog(room.ID, 18.0), ActiveActions: []domain.TempAction{later, earlier},
	})
	assert.Equal(t, domain.Off, got, "expected earliest-expiring action (OFF) to win")
}

func TestResolve_ScheduleInterpolation_Scenario4(t *testing.T) {
	room := domain.Room{ID: uuid.New()}
	schedule := &domain.Schedule{
		ID: uuid.New(),
		Temps: map[domain.PriceLevel]float64{
			domain.VeryCheap: 25.0,
			domain.Expensive: 15.0,
		},
	}
	price := domain.PriceInfo{ExtPriceLevel: domain.Normal} // target interpolates to 18.3

	got := Resolve(Input{Now: time.Now(), Price: price, Room: room,
		CurrentTemp: tempLog(room.ID, 18.0), Schedule: schedule})
	assert.Equal(t, domain.On, got, "expected ON below interpolated target 18.3")

	got = Resolve(Input{Now: time.Now(), Price: price, Room: room,
		CurrentTemp: tempLog(room.ID, 18.5), Schedule: schedule})
	assert.Equal(t, domain.Off, got, "expected OFF above interpolated target 18.3")
}

func TestResolve_NoScheduleNoAction_DefaultsOff(t *testing.T) {
	room := domain.Room{ID: uuid.New()}
	got := Resolve(Input{Now: time.Now(), Price: normalPrice(), Room: room, CurrentTemp: tempLog(room.ID, 10.0)})
	assert.Equal(t, domain.Off, got, "expected OFF with no schedule/action")
}

func TestResolve_PriceLevelFallsBackToProviderHint(t *testing.T) {
	room := domain.Room{ID: uuid.New()}
	schedule := &domain.Schedule{ID: uuid.New(), Temps: map[domain.PriceLevel]float64{domain.Cheap: 21.0}}
	price := domain.PriceInfo{ExtPriceLevel: domain.Cheap, PriceLevel: nil}
	got := Resolve(Input{Now: time.Now(), Price: price, Room: room,
		CurrentTemp: tempLog(room.ID, 18.0), Schedule: schedule})
	assert.Equal(t, domain.On, got, "expected provider hint to be used absent our own derivation")
}

func TestResolve_IdempotentAcrossConsecutivePasses(t *testing.T) {
	room := domain.Room{ID: uuid.New()}
	schedule := &domain.Schedule{ID: uuid.New(), Temps: map[domain.PriceLevel]float64{domain.Normal: 21.0}}
	in := Input{Now: time.Now(), Price: normalPrice(), Room: room,
		CurrentTemp: tempLog(room.ID, 18.0), Schedule: schedule}
	first := Resolve(in)
	second := Resolve(in)
	assert.Equal(t, first, second, "expected identical decisions for identical state")
}
