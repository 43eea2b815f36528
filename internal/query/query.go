// Package query implements the viewer-side query controller: input
// validation, time formatting, and a single bounded fetch against the
// satellite-location API contract.
package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// APITimeLayout is the compact UTC format the API requires
	// (YYYYMMDDTHHMMSSZ). Seconds are always truncated to zero.
	apiTimeLayout = "20060102T150405"

	// InputTimeLayout is the local datetime format accepted by the form.
	InputTimeLayout = "2006-01-02T15:04"

	// ResolutionFactor is fixed by the client; the form does not expose it.
	ResolutionFactor = 5
)

// Params is one satellite-location query as entered by the user.
type Params struct {
	Observatories string    // free-text satellite list, comma separated
	Start         time.Time // local time
	End           time.Time // local time
	System        string    // coordinate system code, e.g. GSE/GEO/GSM
}

// Validation errors are reported inline and block the request entirely.
var (
	errNoObservatories = errors.New("satellite list is required")
	errNoStart         = errors.New("start time is required")
	errNoEnd           = errors.New("end time is required")
	errNoSystem        = errors.New("coordinate system is required")
	errTimeOrder       = errors.New("start time must be before end time")
)

// Validate checks that every field is present and the window is ordered.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Observatories) == "" {
		return errNoObservatories
	}
	if p.Start.IsZero() {
		return errNoStart
	}
	if p.End.IsZero() {
		return errNoEnd
	}
	if strings.TrimSpace(p.System) == "" {
		return errNoSystem
	}
	if !p.Start.Before(p.End) {
		return errTimeOrder
	}
	return nil
}

// ObservatoryCodes returns the cleaned lowercase code list.
func (p Params) ObservatoryCodes() []string {
	var codes []string
	for _, part := range strings.Split(p.Observatories, ",") {
		code := strings.ToLower(strings.TrimSpace(part))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// FormatTime converts a local time into the API's UTC format with seconds
// truncated to zero.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Minute).Format(apiTimeLayout) + "Z"
}

// ParseLocalTime parses a form datetime value in the local timezone.
func ParseLocalTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(InputTimeLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s: %w", InputTimeLayout, err)
	}
	return t, nil
}
