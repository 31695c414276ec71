package dispatcher

import (
	"context"

	"github.com/madssf/smart-home/internal/domain"
)

// RelayClient commands a single network-attached relay. internal/relay
// implements this against real plug/button hardware (with a dummy://
// escape hatch for non-production testing); tests use a fake.
type RelayClient interface {
	Command(ctx context.Context, host, username, password string, action domain.Action) error
}
