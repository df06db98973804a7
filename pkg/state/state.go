// Package state persists the workflow step collection between sessions.
// State is advisory: anything unreadable is discarded in favor of an empty
// collection rather than failing startup.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flowpilot-dev/flowpilot/pkg/flow"
	"github.com/flowpilot-dev/flowpilot/pkg/logger"
)

// persistedState is the on-disk form. Steps are stored in the same
// flattened payload shape the engine consumes.
type persistedState struct {
	Steps []flow.StepPayload `json:"steps"`
}

// Store reads and writes the persisted collection at a fixed path.
type Store struct {
	path string
}

// NewStore creates a store persisting to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the store's file path.
func (s *Store) Path() string { return s.path }

// Load restores the persisted collection. A missing file, unreadable JSON,
// or steps of unknown kinds all reset to an empty collection; parse
// failures are logged for diagnostics only.
func (s *Store) Load() *flow.Collection {
	col := flow.NewCollection()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot read state file %s: %v", s.path, err)
		}
		return col
	}

	var ps persistedState
	if err := json.Unmarshal(data, &ps); err != nil {
		logger.Warn("discarding corrupt state file %s: %v", s.path, err)
		return col
	}
	steps, err := flow.DecodePayload(ps.Steps)
	if err != nil {
		logger.Warn("discarding state file %s: %v", s.path, err)
		return col
	}

	col.LoadTemplate(steps)
	return col
}

// Save writes the collection. All fields are kept, including ones hidden
// by their visibility condition, so editor state survives a restart. The
// write goes through a temp file and a rename so a crash never leaves a
// half-written state file.
func (s *Store) Save(col *flow.Collection) error {
	steps := col.Steps()
	payloads := make([]flow.StepPayload, len(steps))
	for i, st := range steps {
		payloads[i] = flow.StepPayload{Action: st.Kind, Fields: st.Fields}
	}
	ps := persistedState{Steps: payloads}
	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
