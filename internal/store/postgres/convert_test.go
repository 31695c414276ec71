package postgres

import (
	"testing"
	"time"

	"github.com/madssf/smart-home/internal/domain"
)

func TestDaysRoundTrip(t *testing.T) {
	days := map[time.Weekday]struct{}{
		time.Monday:    {},
		time.Wednesday: {},
		time.Sunday:    {},
	}
	got := daysFromInts(daysToInts(days))
	if len(got) != len(days) {
		t.Fatalf("expected %d days, got %d", len(days), len(got))
	}
	for d := range days {
		if _, ok := got[d]; !ok {
			t.Errorf("expected day %v to survive round trip", d)
		}
	}
}

func TestPGTimeRoundTrip(t *testing.T) {
	original := time.Date(2024, 1, 1, 14, 30, 45, 0, time.UTC)
	got := pgTimeToTime(timeToPGTime(original))
	if got.Hour() != 14 || got.Minute() != 30 || got.Second() != 45 {
		t.Fatalf("expected 14:30:45, got %02d:%02d:%02d", got.Hour(), got.Minute(), got.Second())
	}
}

func TestPGTimeRoundTrip_Midnight(t *testing.T) {
	got := pgTimeToTime(timeToPGTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Fatalf("expected midnight, got %02d:%02d:%02d", got.Hour(), got.Minute(), got.Second())
	}
}

func TestPriceLevelParam(t *testing.T) {
	if priceLevelParam(nil) != nil {
		t.Fatalf("expected nil passthrough")
	}
	level := domain.Expensive
	got := priceLevelParam(&level)
	asInt16, ok := got.(int16)
	if !ok || asInt16 != int16(domain.Expensive) {
		t.Fatalf("expected int16(%d), got %v", domain.Expensive, got)
	}
}
