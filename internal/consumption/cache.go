// Package consumption implements the bounded live-power sample cache
// (spec §4.B). It is read by the HTTP SSE route and written by the
// upstream WebSocket subscriber; it never participates in heat-control
// decisions.
package consumption

import (
	"sync"

	"github.com/madssf/smart-home/internal/domain"
)

// Capacity is the number of samples held: at a 2.5s cadence this covers
// roughly 15 minutes.
const Capacity = 360

// Probe is the advisory notification trigger emitted on every push. The
// notification handler (internal/notify) decides whether to actually
// publish.
type Probe struct {
	WattUsage float64
}

// Cache is a bounded, newest-first ring of LiveConsumption samples guarded
// by a reader/writer lock (spec §5: readers are the SSE route, the writer
// is the WebSocket subscriber).
type Cache struct {
	mu      sync.RWMutex
	samples []domain.LiveConsumption // newest-first, len <= Capacity

	probes chan<- Probe
}

// New creates a Cache that emits a Probe on probes for every push. probes
// may be nil if no notification handler is wired (e.g. in tests).
func New(probes chan<- Probe) *Cache {
	return &Cache{
		samples: make([]domain.LiveConsumption, 0, Capacity),
		probes:  probes,
	}
}

// Push prepends sample, dropping the oldest entry once at capacity, then
// emits a probe. The probe send is best-effort: a full channel does not
// block the writer.
func (c *Cache) Push(sample domain.LiveConsumption) {
	c.mu.Lock()
	if len(c.samples) == Capacity {
		c.samples = c.samples[:Capacity-1]
	}
	c.samples = append([]domain.LiveConsumption{sample}, c.samples...)
	c.mu.Unlock()

	if c.probes == nil {
		return
	}
	select {
	case c.probes <- Probe{WattUsage: sample.Power}:
	default:
	}
}

// Snapshot returns a copy of all held samples, newest-first.
func (c *Cache) Snapshot() []domain.LiveConsumption {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.LiveConsumption, len(c.samples))
	copy(out, c.samples)
	return out
}

// Latest returns the first n samples, saturating to the number held.
func (c *Cache) Latest(n int) []domain.LiveConsumption {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n > len(c.samples) {
		n = len(c.samples)
	}
	out := make([]domain.LiveConsumption, n)
	copy(out, c.samples[:n])
	return out
}
