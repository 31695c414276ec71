package domain

import (
	"net"

	"github.com/google/uuid"
)

// Plug is a network-attached relay controlling power to a room.
// When Scheduled is false the Work Dispatcher never touches the plug;
// only button presses do.
type Plug struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	Name      string
	Host      string // bare host or "dummy://<tag>" for the dummy escape hatch, see internal/relay
	Username  string
	Password  string
	Scheduled bool
}

// Validate checks the invariants required before a Plug may be persisted.
func (p Plug) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if !validHost(p.Host) {
		return ErrInvalidHost
	}
	if p.Username == "" || p.Password == "" {
		return ErrEmptyCredentials
	}
	return nil
}

// Button is a physical switch wired to one or more plugs.
type Button struct {
	ID       uuid.UUID
	Host     string
	Username string
	Password string
	PlugIDs  []uuid.UUID // ordered, actuated in order on press
}

// Validate checks the invariants required before a Button may be persisted.
func (b Button) Validate() error {
	if !validHost(b.Host) {
		return ErrInvalidHost
	}
	if b.Username == "" || b.Password == "" {
		return ErrEmptyCredentials
	}
	if len(b.PlugIDs) == 0 {
		return ErrEmptyPlugIDs
	}
	return nil
}

// validHost accepts a bare IP, a resolvable hostname shape, or the
// dummy-plug escape hatch prefix used by the relay client in non-production
// environments (see internal/relay).
func validHost(host string) bool {
	if host == "" {
		return false
	}
	if len(host) > len("dummy://") && host[:len("dummy://")] == "dummy://" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return true
	}
	// Accept a hostname: at least one label, no whitespace.
	for _, r := range host {
		if r == ' ' || r == '\t' || r == '\n' {
			return false
		}
	}
	return true
}
