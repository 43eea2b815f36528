package state

import (
	"errors"
	"testing"
	"time"

	"github.com/skysurvey/ssc-view/internal/query"
)

func TestTryBeginFetchMutualExclusion(t *testing.T) {
	m := NewManager()

	if !m.TryBeginFetch() {
		t.Fatal("first TryBeginFetch failed")
	}
	if m.TryBeginFetch() {
		t.Fatal("second TryBeginFetch succeeded while loading")
	}
	if !m.Loading() {
		t.Error("Loading = false while fetch outstanding")
	}

	m.FinishFetch(query.Params{}, &query.Result{}, time.Millisecond, nil)

	if m.Loading() {
		t.Error("Loading = true after FinishFetch")
	}
	if !m.TryBeginFetch() {
		t.Error("TryBeginFetch failed after FinishFetch")
	}
}

func TestGenerationIncrements(t *testing.T) {
	m := NewManager()
	if m.Generation() != 0 {
		t.Fatalf("initial generation = %d", m.Generation())
	}

	m.TryBeginFetch()
	gen := m.FinishFetch(query.Params{}, &query.Result{}, 0, nil)
	if gen != 1 || m.Generation() != 1 {
		t.Errorf("generation = %d/%d, want 1", gen, m.Generation())
	}

	m.TryBeginFetch()
	gen = m.FinishFetch(query.Params{}, nil, 0, errors.New("boom"))
	if gen != 2 {
		t.Errorf("generation after failed fetch = %d, want 2", gen)
	}
}

func TestSnapshotDeepCopies(t *testing.T) {
	m := NewManager()
	m.TryBeginFetch()
	m.FinishFetch(query.Params{Observatories: "ace"}, &query.Result{
		Vertices: [][3]float64{{1, 2, 3}},
		Labels:   []string{"ace"},
	}, 5*time.Millisecond, nil)

	snap := m.Snapshot()
	if snap.Result == nil || len(snap.Result.Vertices) != 1 {
		t.Fatalf("snapshot result = %+v", snap.Result)
	}

	// Mutating the snapshot must not reach the manager.
	snap.Result.Vertices[0][0] = 99
	snap.Result.Labels[0] = "tampered"

	again := m.Snapshot()
	if again.Result.Vertices[0][0] != 1 || again.Result.Labels[0] != "ace" {
		t.Error("snapshot shares slices with the manager")
	}
}

func TestHasData(t *testing.T) {
	m := NewManager()
	if m.HasData() {
		t.Error("HasData = true for empty manager")
	}

	m.TryBeginFetch()
	m.FinishFetch(query.Params{}, &query.Result{Message: "no data"}, 0, nil)
	if m.HasData() {
		t.Error("HasData = true for empty result with message")
	}

	m.TryBeginFetch()
	m.FinishFetch(query.Params{}, &query.Result{
		Vertices: [][3]float64{{1, 0, 0}},
		Labels:   []string{"ace"},
	}, 0, nil)
	if !m.HasData() {
		t.Error("HasData = false for populated result")
	}
}
