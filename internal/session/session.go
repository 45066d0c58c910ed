// Package session holds per-user dataset state for the web shell.
package session

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/dataglance/internal/dataset"
)

// State is the dataset state of a Session.
type State int

const (
	// NoDataset is the initial state and the state after a failed upload or reset.
	NoDataset State = iota
	// Loaded means a Table is available.
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "no_dataset"
}

// Session is one user's view of the application. Views read a Snapshot; only
// Load and Reset change state.
type Session struct {
	ID string

	mu       sync.RWMutex
	state    State
	table    *dataset.Table
	fileName string
	loadedAt time.Time
}

// Snapshot is a consistent copy of a Session's state.
type Snapshot struct {
	State    State
	Table    *dataset.Table
	FileName string
	LoadedAt time.Time
}

// New returns a session in NoDataset with a fresh id.
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Load parses an upload and replaces the current Table. On error the session
// drops any previous Table and returns to NoDataset.
func (s *Session) Load(name string, r io.Reader) (*dataset.Table, error) {
	t, err := dataset.Load(name, r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.clear()
		return nil, err
	}
	s.state = Loaded
	s.table = t
	s.fileName = name
	s.loadedAt = time.Now()
	return t, nil
}

// Reset returns the session to NoDataset.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clear()
}

func (s *Session) clear() {
	s.state = NoDataset
	s.table = nil
	s.fileName = ""
	s.loadedAt = time.Time{}
}

// State reports the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Table returns the loaded Table; ok is false in NoDataset.
func (s *Session) Table() (*dataset.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, s.state == Loaded
}

// Snapshot returns the current state in one read.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{State: s.state, Table: s.table, FileName: s.fileName, LoadedAt: s.loadedAt}
}
