package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/madssf/smart-home/internal/domain"
)

type fakeReader struct {
	schedules map[uuid.UUID][]domain.Schedule
}

func (f fakeReader) SchedulesForRoom(_ context.Context, roomID uuid.UUID) ([]domain.Schedule, error) {
	return f.schedules[roomID], nil
}

func window(fromH, fromM, toH, toM int) domain.Window {
	ref := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Window{
		From: ref.Add(time.Duration(fromH)*time.Hour + time.Duration(fromM)*time.Minute),
		To:   ref.Add(time.Duration(toH)*time.Hour + time.Duration(toM)*time.Minute),
	}
}

func TestResolve_MatchesOnlyOnScheduledDayAndTime(t *testing.T) {
	roomID := uuid.New()
	s1 := domain.Schedule{
		ID:      uuid.New(),
		Days:    map[time.Weekday]struct{}{time.Monday: {}},
		Windows: []domain.Window{window(12, 0, 13, 0)},
		RoomIDs: []uuid.UUID{roomID},
		Temps:   map[domain.PriceLevel]float64{domain.Normal: 20},
	}
	reader := fakeReader{schedules: map[uuid.UUID][]domain.Schedule{roomID: {s1}}}
	r := New(reader)

	// A Monday at 12:30.
	mon := time.Date(2024, time.January, 1, 12, 30, 0, 0, time.UTC) // 2024-01-01 is a Monday
	got, err := r.Resolve(context.Background(), roomID, mon)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != s1.ID {
		t.Fatalf("expected schedule %v, got %v", s1.ID, got)
	}

	// Wrong day: Tuesday same time.
	tue := mon.AddDate(0, 0, 1)
	got, err = r.Resolve(context.Background(), roomID, tue)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected no match on wrong day, got %v", got)
	}

	// Wrong time: Monday at 14:00.
	wrongTime := time.Date(2024, time.January, 1, 14, 0, 0, 0, time.UTC)
	got, err = r.Resolve(context.Background(), roomID, wrongTime)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected no match at wrong time, got %v", got)
	}
}

func TestResolve_HalfOpenWindow(t *testing.T) {
	roomID := uuid.New()
	s := domain.Schedule{
		ID:      uuid.New(),
		Days:    map[time.Weekday]struct{}{time.Monday: {}},
		Windows: []domain.Window{window(12, 0, 13, 0)},
		RoomIDs: []uuid.UUID{roomID},
		Temps:   map[domain.PriceLevel]float64{domain.Normal: 20},
	}
	reader := fakeReader{schedules: map[uuid.UUID][]domain.Schedule{roomID: {s}}}
	r := New(reader)

	atStart := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	atEnd := time.Date(2024, time.January, 1, 13, 0, 0, 0, time.UTC)

	got, _ := r.Resolve(context.Background(), roomID, atStart)
	if got == nil {
		t.Fatal("expected window start to be inclusive")
	}
	got, _ = r.Resolve(context.Background(), roomID, atEnd)
	if got != nil {
		t.Fatal("expected window end to be exclusive")
	}
}
