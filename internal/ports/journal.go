package ports

import (
	"context"
	"time"
)

// Exchange is one command sent to the firmware and its outcome.
type Exchange struct {
	At        time.Time
	SessionID string
	Target    string
	Command   string
	Reply     string
	Replied   bool
	Error     string
}

// Journal records exchanges for later inspection.
type Journal interface {
	Record(ctx context.Context, ex Exchange) error
	Recent(ctx context.Context, limit int) ([]Exchange, error)
}
