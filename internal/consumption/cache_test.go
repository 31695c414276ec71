package consumption

import (
	"testing"
	"time"

	"github.com/madssf/smart-home/internal/domain"
)

func TestCache_DropsOldestAtCapacity(t *testing.T) {
	c := New(nil)
	for i := 0; i < Capacity+50; i++ {
		c.Push(domain.LiveConsumption{Timestamp: time.Unix(int64(i), 0), Power: float64(i)})
	}
	snap := c.Snapshot()
	if len(snap) != Capacity {
		t.Fatalf("expected %d samples, got %d", Capacity, len(snap))
	}
	if snap[0].Power != float64(Capacity+50-1) {
		t.Fatalf("expected newest-first ordering, got %v", snap[0].Power)
	}
}

func TestCache_LatestSaturates(t *testing.T) {
	c := New(nil)
	c.Push(domain.LiveConsumption{Power: 1})
	c.Push(domain.LiveConsumption{Power: 2})

	got := c.Latest(100)
	if len(got) != 2 {
		t.Fatalf("expected latest to saturate to 2, got %d", len(got))
	}
	if got[0].Power != 2 {
		t.Fatalf("expected newest-first, got %v", got[0].Power)
	}
}

func TestCache_PushEmitsProbe(t *testing.T) {
	probes := make(chan Probe, 1)
	c := New(probes)
	c.Push(domain.LiveConsumption{Power: 1500})

	select {
	case p := <-probes:
		if p.WattUsage != 1500 {
			t.Fatalf("expected probe watt usage 1500, got %v", p.WattUsage)
		}
	default:
		t.Fatal("expected a probe to be emitted")
	}
}

func TestCache_ProbeNonBlockingWhenFull(t *testing.T) {
	probes := make(chan Probe) // unbuffered, nobody reading
	c := New(probes)
	done := make(chan struct{})
	go func() {
		c.Push(domain.LiveConsumption{Power: 1})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Push blocked on a full/unread probe channel")
	}
}
