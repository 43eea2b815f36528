package ssc

import (
	"context"
	"encoding/json"
	"fmt"
)

// Observatory is a satellite known to SSC Web Services.
type Observatory struct {
	ID   string `json:"id"`   // lowercase request code, e.g. "ace"
	Name string `json:"name"` // display name, e.g. "ACE"
}

// Observatories fetches the catalog of satellites the service can resolve.
func (c *Client) Observatories(ctx context.Context) ([]Observatory, error) {
	body, err := c.get(ctx, c.baseURL+"/observatories")
	if err != nil {
		return nil, err
	}

	list, err := parseObservatories(body)
	if err != nil {
		return nil, fmt.Errorf("parse observatories response: %w", err)
	}

	return list, nil
}

// parseObservatories unwraps Response -> Observatory -> [entry...], where
// each entry carries plain Id/Name scalars. Entries missing an id are
// dropped; a missing name falls back to the id.
func parseObservatories(body []byte) ([]Observatory, error) {
	var root interface{}
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}

	doc, ok := pairObject(root)
	if !ok {
		return nil, fmt.Errorf("unexpected response shape")
	}

	entries, ok := pairList(doc["Observatory"])
	if !ok {
		return nil, nil
	}

	var out []Observatory
	for _, rawEntry := range entries {
		entry, ok := pairObject(rawEntry)
		if !ok {
			continue
		}

		id, _ := entry["Id"].(string)
		if id == "" {
			continue
		}
		name, _ := entry["Name"].(string)
		if name == "" {
			name = id
		}

		out = append(out, Observatory{ID: id, Name: name})
	}

	return out, nil
}
