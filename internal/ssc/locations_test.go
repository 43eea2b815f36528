package ssc

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// locationsFixture mimics the SSC locations payload shape: every non-scalar
// value is a ["java.class", value] pair.
const locationsFixture = `[
  "gov.nasa.gsfc.sscweb.schema.DataResponse",
  {
    "Result": [
      "gov.nasa.gsfc.sscweb.schema.DataResult",
      {
        "Data": [
          "java.util.ArrayList",
          [
            [
              "gov.nasa.gsfc.sscweb.schema.SatelliteData",
              {
                "Id": "ace",
                "Coordinates": [
                  "java.util.ArrayList",
                  [
                    [
                      "gov.nasa.gsfc.sscweb.schema.CoordinateData",
                      {
                        "X": ["java.util.ArrayList", [1200000.0, 1210000.0]],
                        "Y": ["java.util.ArrayList", [-300000.0, "-310000.0"]],
                        "Z": ["java.util.ArrayList", [50000.0, 51000.0]]
                      }
                    ]
                  ]
                ]
              }
            ],
            [
              "gov.nasa.gsfc.sscweb.schema.SatelliteData",
              {
                "Id": "wind",
                "Coordinates": [
                  "java.util.ArrayList",
                  [
                    [
                      "gov.nasa.gsfc.sscweb.schema.CoordinateData",
                      {
                        "X": ["java.util.ArrayList", [900000.0, "bogus"]],
                        "Y": ["java.util.ArrayList", [100000.0, 110000.0]],
                        "Z": ["java.util.ArrayList", [-200000.0, -210000.0]]
                      }
                    ]
                  ]
                ]
              }
            ]
          ]
        ]
      }
    ]
  }
]`

func TestParseLocations(t *testing.T) {
	set, err := parseLocations([]byte(locationsFixture))
	if err != nil {
		t.Fatalf("parseLocations failed: %v", err)
	}

	// ace contributes 2 samples, wind only 1 (second X sample is bogus).
	if len(set.Vertices) != 3 {
		t.Fatalf("vertices = %d, want 3", len(set.Vertices))
	}
	if len(set.Labels) != len(set.Vertices) {
		t.Fatalf("labels = %d, want %d", len(set.Labels), len(set.Vertices))
	}

	wantLabels := []string{"ace", "ace", "wind"}
	for i, want := range wantLabels {
		if set.Labels[i] != want {
			t.Errorf("label[%d] = %q, want %q", i, set.Labels[i], want)
		}
	}

	// Kilometers scaled into scene units.
	if math.Abs(set.Vertices[0][0]-1.2) > 1e-9 {
		t.Errorf("vertex[0].x = %v, want 1.2", set.Vertices[0][0])
	}
	if math.Abs(set.Vertices[1][1]-(-0.31)) > 1e-9 {
		t.Errorf("vertex[1].y = %v, want -0.31 (string sample)", set.Vertices[1][1])
	}
	if math.Abs(set.Vertices[2][2]-(-0.2)) > 1e-9 {
		t.Errorf("vertex[2].z = %v, want -0.2", set.Vertices[2][2])
	}
}

func TestParseLocationsEmptyResult(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no result block", `["resp", {}]`},
		{"no data block", `["resp", {"Result": ["res", {}]}]`},
		{"empty data list", `["resp", {"Result": ["res", {"Data": ["list", []]}]}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			set, err := parseLocations([]byte(tc.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(set.Vertices) != 0 || len(set.Labels) != 0 {
				t.Errorf("expected empty set, got %d vertices", len(set.Vertices))
			}
		})
	}
}

func TestParseLocationsMalformed(t *testing.T) {
	if _, err := parseLocations([]byte(`{"not": "a pair"}`)); err == nil {
		t.Error("expected error for non-pair root")
	}
	if _, err := parseLocations([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLocationsURL(t *testing.T) {
	c := NewClient(WithBaseURL("https://example.test/WS/sscr/2"))

	got := c.locationsURL(LocationRequest{
		Observatories:    []string{"ace", "wind"},
		StartTime:        "20240101T000000Z",
		EndTime:          "20240101T010000Z",
		System:           "GSE",
		ResolutionFactor: 5,
	})

	want := "https://example.test/WS/sscr/2/locations/ace,wind/20240101T000000Z,20240101T010000Z/GSE/?resolutionFactor=5"
	if got != want {
		t.Errorf("url = %q, want %q", got, want)
	}
}

func TestLocationsRequestHeaders(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`["resp", {}]`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.Locations(context.Background(), LocationRequest{
		Observatories:    []string{"ace"},
		StartTime:        "20240101T000000Z",
		EndTime:          "20240101T010000Z",
		System:           "GSE",
		ResolutionFactor: 5,
	}); err != nil {
		t.Fatalf("Locations failed: %v", err)
	}

	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestLocationsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such satellite", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Locations(context.Background(), LocationRequest{
		Observatories:    []string{"nope"},
		StartTime:        "20240101T000000Z",
		EndTime:          "20240101T010000Z",
		System:           "GSE",
		ResolutionFactor: 5,
	})
	if err == nil {
		t.Fatal("expected error for 404 upstream")
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Errorf("error = %v, want status in message", err)
	}
}
