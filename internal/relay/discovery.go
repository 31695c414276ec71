package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/grandcat/zeroconf"
)

// serviceType is the mDNS service type Shelly-family relays advertise.
const serviceType = "_http._tcp"

// Discovered is one relay found on the local network, before it has been
// matched to a Plug or Button record by an operator.
type Discovered struct {
	Instance string
	Host     string
	Port     int
}

// Discover browses the local network for relay devices for the given
// duration, returning whatever answers arrived before the deadline. It's
// an operator-facing convenience (surfaced through a CRUD-adjacent HTTP
// route) for populating new Plug/Button host fields, not something the
// Work Dispatcher depends on for control decisions.
func Discover(ctx context.Context, domain string, timeout time.Duration) ([]Discovered, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("create mdns resolver: %w", err)
	}

	if domain == "" {
		domain = "local."
	}

	entries := make(chan *zeroconf.ServiceEntry, 16)
	var found []Discovered
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			d := Discovered{Instance: entry.Instance, Port: entry.Port}
			if len(entry.AddrIPv4) > 0 {
				d.Host = entry.AddrIPv4[0].String()
			}
			found = append(found, d)
		}
	}()

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := resolver.Browse(browseCtx, serviceType, domain, entries); err != nil {
		return nil, fmt.Errorf("browse for relays: %w", err)
	}

	<-browseCtx.Done()
	<-done

	slog.Info("relay discovery complete", "found", len(found))
	return found, nil
}
