package config

import (
	"encoding/json"
	"fmt"
	"os"

	"jobscout-engine/internal/search"
)

type queriesFile struct {
	SearchAPI struct {
		Queries []search.Query `json:"queries"`
	} `json:"searchapi"`
}

// LoadQueries reads the discovery-query document. A missing file means no
// search discovery.
func LoadQueries(path string) ([]search.Query, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: read queries %s: %w", path, err)
	}
	var qf queriesFile
	if err := json.Unmarshal(b, &qf); err != nil {
		return nil, fmt.Errorf("config: parse queries %s: %w", path, err)
	}
	return qf.SearchAPI.Queries, nil
}

// LoadDocument reads an opaque JSON document (candidate profile, role
// reference) used verbatim in scoring prompts. Missing files return an empty
// object so scoring still works without them.
func LoadDocument(path string) (json.RawMessage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return json.RawMessage("{}"), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("config: %s is not valid JSON", path)
	}
	return json.RawMessage(b), nil
}
