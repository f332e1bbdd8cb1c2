package ports

import (
	"context"
	"time"
)

// PanelState is what the panel remembers between runs.
type PanelState struct {
	Workbook  string    `json:"workbook,omitempty"`
	Target    string    `json:"target,omitempty"`
	Connected bool      `json:"connected"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StateRepository handles panel state persistence.
// Implementations persist state to disk (or other storage) atomically.
type StateRepository interface {
	// Load retrieves the last saved state.
	// Returns an empty state and nil error if no state exists.
	Load(ctx context.Context) (PanelState, error)

	// Save persists the current state atomically.
	Save(ctx context.Context, state PanelState) error
}
