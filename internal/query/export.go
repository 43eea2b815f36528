package query

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// SnapshotExport is the JSON-serializable form of one fetch, used by the
// headless -snapshot-path mode.
type SnapshotExport struct {
	FetchedAt     time.Time    `json:"fetched_at"`
	Observatories []string     `json:"observatories"`
	StartTime     string       `json:"start_time"`
	EndTime       string       `json:"end_time"`
	System        string       `json:"coordinate_system"`
	Vertices      [][3]float64 `json:"vertices"`
	Labels        []string     `json:"labels"`
	Message       string       `json:"message,omitempty"`
}

// ExportSnapshot pairs a result with the query that produced it.
func ExportSnapshot(p Params, r *Result, fetchedAt time.Time) *SnapshotExport {
	export := &SnapshotExport{
		FetchedAt:     fetchedAt,
		Observatories: p.ObservatoryCodes(),
		StartTime:     FormatTime(p.Start),
		EndTime:       FormatTime(p.End),
		System:        p.System,
	}
	if r != nil {
		export.Vertices = r.Vertices
		export.Labels = r.Labels
		export.Message = r.Message
	}
	return export
}

// WriteJSON writes the snapshot as indented JSON.
func (e *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// WriteSummary writes a plain-text table of the snapshot, used by the
// headless -summary mode.
func (e *SnapshotExport) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "Satellite locations · %s · %s to %s · %s\n",
		strings.Join(e.Observatories, ","), e.StartTime, e.EndTime, e.System)
	fmt.Fprintf(w, "Fetched at %s\n\n", e.FetchedAt.Format(time.RFC3339))

	if len(e.Vertices) == 0 {
		msg := e.Message
		if msg == "" {
			msg = "No data points."
		}
		fmt.Fprintln(w, msg)
		return
	}

	fmt.Fprintf(w, "%-5s %-16s %12s %12s %12s\n", "#", "satellite", "x", "y", "z")
	for i, v := range e.Vertices {
		label := ""
		if i < len(e.Labels) {
			label = e.Labels[i]
		}
		fmt.Fprintf(w, "%-5d %-16s %12.6f %12.6f %12.6f\n", i, label, v[0], v[1], v[2])
	}
	fmt.Fprintf(w, "\n%d points\n", len(e.Vertices))
}
