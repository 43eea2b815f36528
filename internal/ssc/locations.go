package ssc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// LocationRequest describes one locations query. Times are already in the
// compact SSC format (YYYYMMDDTHHMMSSZ); formatting is the caller's concern.
type LocationRequest struct {
	Observatories    []string // lowercase SSC observatory codes
	StartTime        string
	EndTime          string
	System           string // coordinate system code, e.g. GSE/GEO/GSM
	ResolutionFactor int
}

// LocationSet is the flattened result of a locations query: one vertex per
// time sample per satellite, with the satellite id repeated as the parallel
// label. Vertices are in scene units (km scaled by VertexScale).
type LocationSet struct {
	Vertices [][3]float64
	Labels   []string
}

// locationsURL builds the REST path for a locations query:
// {base}/locations/{observatories}/{start},{end}/{system}/?resolutionFactor=N
func (c *Client) locationsURL(req LocationRequest) string {
	path := fmt.Sprintf("%s/locations/%s/%s,%s/%s/",
		c.baseURL,
		strings.Join(req.Observatories, ","),
		req.StartTime,
		req.EndTime,
		req.System,
	)

	params := url.Values{}
	params.Set("resolutionFactor", strconv.Itoa(req.ResolutionFactor))

	return path + "?" + params.Encode()
}

// Locations queries SSC for satellite positions over the request window.
func (c *Client) Locations(ctx context.Context, req LocationRequest) (*LocationSet, error) {
	body, err := c.get(ctx, c.locationsURL(req))
	if err != nil {
		return nil, err
	}

	set, err := parseLocations(body)
	if err != nil {
		return nil, fmt.Errorf("parse locations response: %w", err)
	}

	return set, nil
}

// SSC serializes its Java object model, so every non-scalar value arrives
// as a two-element ["java.class", value] pair. These helpers unwrap that
// shape without committing to the class names.

func pairValue(v interface{}) (interface{}, bool) {
	pair, ok := v.([]interface{})
	if !ok || len(pair) != 2 {
		return nil, false
	}
	return pair[1], true
}

func pairObject(v interface{}) (map[string]interface{}, bool) {
	inner, ok := pairValue(v)
	if !ok {
		return nil, false
	}
	obj, ok := inner.(map[string]interface{})
	return obj, ok
}

func pairList(v interface{}) ([]interface{}, bool) {
	inner, ok := pairValue(v)
	if !ok {
		return nil, false
	}
	list, ok := inner.([]interface{})
	return list, ok
}

// floatSeries unwraps a coordinate series pair into its samples. Individual
// samples may arrive as numbers or strings.
func floatSeries(v interface{}) []interface{} {
	list, ok := pairList(v)
	if !ok {
		return nil
	}
	return list
}

func sampleFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// parseLocations flattens the nested SSC locations payload. The structure,
// after unwrapping pairs, is:
//
//	Response -> Result -> Data -> [satellite...]
//	satellite -> {Id, Coordinates -> [{X, Y, Z: series}]}
//
// Satellites with no coordinate block and samples that fail to parse are
// skipped; everything that parses is kept.
func parseLocations(body []byte) (*LocationSet, error) {
	var root interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}

	set := &LocationSet{}

	doc, ok := pairObject(root)
	if !ok {
		return nil, fmt.Errorf("unexpected response shape")
	}

	result, ok := pairObject(doc["Result"])
	if !ok {
		// A result envelope without a Result block means no data.
		return set, nil
	}

	satellites, ok := pairList(result["Data"])
	if !ok {
		return set, nil
	}

	for _, rawSat := range satellites {
		sat, ok := pairObject(rawSat)
		if !ok {
			continue
		}

		id, _ := sat["Id"].(string)
		if id == "" {
			id = "Unknown"
		}

		coordBlocks, ok := pairList(sat["Coordinates"])
		if !ok || len(coordBlocks) == 0 {
			continue
		}
		coords, ok := pairObject(coordBlocks[0])
		if !ok {
			continue
		}

		xs := floatSeries(coords["X"])
		ys := floatSeries(coords["Y"])
		zs := floatSeries(coords["Z"])

		n := len(xs)
		if len(ys) < n {
			n = len(ys)
		}
		if len(zs) < n {
			n = len(zs)
		}

		for i := 0; i < n; i++ {
			x, okX := sampleFloat(xs[i])
			y, okY := sampleFloat(ys[i])
			z, okZ := sampleFloat(zs[i])
			if !okX || !okY || !okZ {
				continue
			}
			set.Vertices = append(set.Vertices, [3]float64{
				x * VertexScale,
				y * VertexScale,
				z * VertexScale,
			})
			set.Labels = append(set.Labels, id)
		}
	}

	return set, nil
}
