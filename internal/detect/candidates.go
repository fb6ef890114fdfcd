package detect

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExtractCandidateCompanies pulls company names out of a LinkedIn data
// export: saved jobs and followed companies. Names already on the roster are
// filtered out by normalized form.
func ExtractCandidateCompanies(exportDir string, existing []string) ([]string, error) {
	known := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		known[NormalizeCompany(name)] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		norm := NormalizeCompany(name)
		if _, dup := seen[norm]; dup {
			return
		}
		if _, onRoster := known[norm]; onRoster {
			return
		}
		seen[norm] = struct{}{}
		out = append(out, name)
	}

	sources := []struct {
		path   string
		column string
	}{
		{filepath.Join(exportDir, "Jobs", "Saved Jobs.csv"), "Company Name"},
		{filepath.Join(exportDir, "Company Follows.csv"), "Organization"},
	}

	found := false
	for _, src := range sources {
		names, err := csvColumn(src.path, src.column)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			log.Printf("[detect] skipping %s: %v", src.path, err)
			continue
		}
		found = true
		for _, name := range names {
			add(name)
		}
	}
	if !found {
		return nil, fmt.Errorf("detect: no LinkedIn export files under %s", exportDir)
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out, nil
}

// csvColumn reads one named column from a CSV file with a header row.
func csvColumn(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("column %q not found", column)
	}

	var out []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if col < len(rec) {
			out = append(out, rec[col])
		}
	}
	return out, nil
}
