// Package fs holds filesystem adapters: the panel state file and the
// workbook change watcher.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bft-labs/motionpanel/internal/ports"
)

const stateFileName = "panel.json"

// StateFileRepository implements ports.StateRepository using a JSON file.
type StateFileRepository struct {
	mu  sync.Mutex
	dir string
}

// NewStateFileRepository creates a new StateFileRepository for the given directory.
func NewStateFileRepository(dir string) *StateFileRepository {
	return &StateFileRepository{dir: dir}
}

// Load returns the remembered panel state.
// A missing file yields the zero state and a nil error.
func (r *StateFileRepository) Load(ctx context.Context) (ports.PanelState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.Path())
	if errors.Is(err, os.ErrNotExist) {
		return ports.PanelState{}, nil
	}
	if err != nil {
		return ports.PanelState{}, err
	}

	var st ports.PanelState
	if err := json.Unmarshal(data, &st); err != nil {
		return ports.PanelState{}, fmt.Errorf("decode %s: %w", r.Path(), err)
	}
	return st, nil
}

// Save writes state to a temp file in the same directory and renames it over
// the previous file.
func (r *StateFileRepository) Save(ctx context.Context, st ports.PanelState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, stateFileName+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.Path())
}

// Path returns the full path to the state file.
func (r *StateFileRepository) Path() string {
	return filepath.Join(r.dir, stateFileName)
}

var _ ports.StateRepository = (*StateFileRepository)(nil)
