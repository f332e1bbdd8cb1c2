package ports

import (
	"context"
	"time"
)

// Channel is one open, unacknowledged command channel to the firmware.
// Implementations are not safe for concurrent use; the Session serializes
// access.
type Channel interface {
	// Send writes a single command payload. Delivery is not guaranteed.
	Send(ctx context.Context, payload []byte) error

	// Receive waits until deadline for one reply.
	// Returns domain.ErrNoReply when the deadline passes without data.
	Receive(ctx context.Context, deadline time.Time) ([]byte, error)

	// Close releases the channel. Closing twice is a no-op.
	Close() error
}

// Dialer opens channels to the configured target.
type Dialer interface {
	// Dial opens a new channel. The caller owns the returned Channel.
	Dial(ctx context.Context) (Channel, error)

	// Target describes the remote end for logs, e.g. "192.168.4.1:8888".
	Target() string
}
