package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobscout-engine/internal/domain"
)

// Roster is the monitored-company list, an ordered JSON document. Entries
// are identified by normalized company name; detection and manual input
// append, nothing deletes.
type Roster struct {
	Companies []domain.CompanyBoard `json:"companies"`
}

// LoadRoster reads the roster from path. A missing file is an empty roster.
func LoadRoster(path string) (*Roster, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Roster{}, nil
		}
		return nil, fmt.Errorf("config: read roster %s: %w", path, err)
	}
	var r Roster
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("config: parse roster %s: %w", path, err)
	}
	return &r, nil
}

// Has reports whether a company is already on the roster, compared
// case-insensitively by name.
func (r *Roster) Has(name string) bool {
	for _, co := range r.Companies {
		if strings.EqualFold(co.Name, name) {
			return true
		}
	}
	return false
}

// Add appends a board unless the company is already present. Reports whether
// the roster changed.
func (r *Roster) Add(board domain.CompanyBoard) bool {
	if r.Has(board.Name) {
		return false
	}
	r.Companies = append(r.Companies, board)
	return true
}

// SaveRoster writes the roster atomically via temp file plus rename.
func SaveRoster(path string, r *Roster) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
