package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/madssf/smart-home/internal/consumption"
	"github.com/madssf/smart-home/internal/domain"
	"github.com/madssf/smart-home/internal/store/memstore"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakePublisher) Publish(_ context.Context, _ string, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func ptr(v float64) *float64 { return &v }

func TestHandleConsumption_PublishesAboveThreshold(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.PutNotificationSettings(ctx, domain.NotificationSettings{
		MaxConsumption: ptr(3000), MaxConsumptionTimeoutMinutes: 15, NtfyTopic: "heating",
	}); err != nil {
		t.Fatal(err)
	}
	pub := &fakePublisher{}
	now := time.Now()
	h := New(pub, st, func() time.Time { return now })

	h.handleConsumption(ctx, consumption.Probe{WattUsage: 3200})

	if pub.count() != 1 {
		t.Fatalf("expected one notification, got %d", pub.count())
	}
}

func TestHandleConsumption_BelowThresholdDoesNotPublish(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.PutNotificationSettings(ctx, domain.NotificationSettings{
		MaxConsumption: ptr(3000), MaxConsumptionTimeoutMinutes: 15, NtfyTopic: "heating",
	}); err != nil {
		t.Fatal(err)
	}
	pub := &fakePublisher{}
	h := New(pub, st, nil)

	h.handleConsumption(ctx, consumption.Probe{WattUsage: 1500})

	if pub.count() != 0 {
		t.Fatalf("expected no notification below threshold, got %d", pub.count())
	}
}

func TestHandleConsumption_DebouncedWithinTimeout(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.PutNotificationSettings(ctx, domain.NotificationSettings{
		MaxConsumption: ptr(3000), MaxConsumptionTimeoutMinutes: 15, NtfyTopic: "heating",
	}); err != nil {
		t.Fatal(err)
	}
	pub := &fakePublisher{}
	now := time.Now()
	clock := now
	h := New(pub, st, func() time.Time { return clock })

	h.handleConsumption(ctx, consumption.Probe{WattUsage: 3500})
	clock = now.Add(5 * time.Minute) // within the 15 minute timeout
	h.handleConsumption(ctx, consumption.Probe{WattUsage: 3600})

	if pub.count() != 1 {
		t.Fatalf("expected the second probe to be debounced, got %d notifications", pub.count())
	}
}

func TestHandleConsumption_PublishesAgainAfterTimeoutElapses(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.PutNotificationSettings(ctx, domain.NotificationSettings{
		MaxConsumption: ptr(3000), MaxConsumptionTimeoutMinutes: 15, NtfyTopic: "heating",
	}); err != nil {
		t.Fatal(err)
	}
	pub := &fakePublisher{}
	now := time.Now()
	clock := now
	h := New(pub, st, func() time.Time { return clock })

	h.handleConsumption(ctx, consumption.Probe{WattUsage: 3500})
	clock = now.Add(20 * time.Minute)
	h.handleConsumption(ctx, consumption.Probe{WattUsage: 3600})

	if pub.count() != 2 {
		t.Fatalf("expected a second notification after the timeout elapsed, got %d", pub.count())
	}
}

func TestHandleConsumption_NoSettingsIsNoop(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	pub := &fakePublisher{}
	h := New(pub, st, nil)

	h.handleConsumption(ctx, consumption.Probe{WattUsage: 9000})

	if pub.count() != 0 {
		t.Fatalf("expected no notification without settings, got %d", pub.count())
	}
}

func TestSendStartup_Publishes(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.PutNotificationSettings(ctx, domain.NotificationSettings{NtfyTopic: "heating"}); err != nil {
		t.Fatal(err)
	}
	pub := &fakePublisher{}
	h := New(pub, st, nil)

	h.SendStartup(ctx)

	if pub.count() != 1 {
		t.Fatalf("expected a startup notification, got %d", pub.count())
	}
}

func TestSendError_DebouncedWithinWindow(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.PutNotificationSettings(ctx, domain.NotificationSettings{NtfyTopic: "heating"}); err != nil {
		t.Fatal(err)
	}
	pub := &fakePublisher{}
	now := time.Now()
	clock := now
	h := New(pub, st, func() time.Time { return clock })

	h.SendError(ctx, "dispatcher: no room for plug")
	clock = now.Add(5 * time.Minute)
	h.SendError(ctx, "dispatcher: no room for plug")

	if pub.count() != 1 {
		t.Fatalf("expected the second error to be debounced, got %d notifications", pub.count())
	}
}

func TestSendError_IndependentFromConsumptionDebounce(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	if err := st.PutNotificationSettings(ctx, domain.NotificationSettings{
		MaxConsumption: ptr(3000), MaxConsumptionTimeoutMinutes: 15, NtfyTopic: "heating",
	}); err != nil {
		t.Fatal(err)
	}
	pub := &fakePublisher{}
	h := New(pub, st, nil)

	h.handleConsumption(ctx, consumption.Probe{WattUsage: 3500})
	h.SendError(ctx, "mqtt subscriber lost connection")

	if pub.count() != 2 {
		t.Fatalf("expected consumption and error notifications to use independent debounce buckets, got %d", pub.count())
	}
}
