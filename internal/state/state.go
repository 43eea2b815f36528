// Package state provides thread-safe fetch state for the viewer.
package state

import (
	"sync"
	"time"

	"github.com/skysurvey/ssc-view/internal/query"
)

// Manager holds the result of the most recent fetch. There is no history:
// every fetch fully replaces the previous state, and the scene is rebuilt
// from scratch from the snapshot.
type Manager struct {
	mu sync.RWMutex

	params        query.Params
	result        *query.Result
	lastFetch     time.Time
	lastError     error
	fetchDuration time.Duration

	// loading is the mutual-exclusion flag: at most one fetch is
	// outstanding, and the UI disables the submit control while it is.
	loading bool

	// generation increases whenever a fetch completes and the scene will
	// be rebuilt. Async work started against an older generation must be
	// discarded when it resolves.
	generation uint64
}

// NewManager creates an empty state manager.
func NewManager() *Manager {
	return &Manager{}
}

// TryBeginFetch marks a fetch as outstanding. It returns false when one is
// already in flight, in which case the caller must not start another.
func (m *Manager) TryBeginFetch() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loading {
		return false
	}
	m.loading = true
	return true
}

// FinishFetch records the outcome of the outstanding fetch and clears the
// loading flag. It returns the new scene generation.
func (m *Manager) FinishFetch(p query.Params, r *query.Result, d time.Duration, err error) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loading = false
	m.params = p
	m.result = r
	m.lastFetch = time.Now()
	m.lastError = err
	m.fetchDuration = d
	m.generation++
	return m.generation
}

// Loading reports whether a fetch is outstanding.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Generation returns the current scene generation.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// HasData reports whether the latest fetch returned data points.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.result != nil && !m.result.Empty()
}

// Snapshot is an immutable copy of the current state.
type Snapshot struct {
	Params        query.Params
	Result        *query.Result
	LastFetch     time.Time
	LastError     error
	FetchDuration time.Duration
	Loading       bool
	Generation    uint64
}

// Snapshot returns a consistent copy of the current state. The result
// payload is deep-copied so callers never share slices with the manager.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := Snapshot{
		Params:        m.params,
		LastFetch:     m.lastFetch,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		Loading:       m.loading,
		Generation:    m.generation,
	}

	if m.result != nil {
		r := &query.Result{
			Vertices: make([][3]float64, len(m.result.Vertices)),
			Labels:   make([]string, len(m.result.Labels)),
			Message:  m.result.Message,
		}
		copy(r.Vertices, m.result.Vertices)
		copy(r.Labels, m.result.Labels)
		snap.Result = r
	}

	return snap
}
