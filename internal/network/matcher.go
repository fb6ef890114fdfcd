// Package network cross-references posting companies against an exported
// LinkedIn connections list, surfacing people already known at companies
// with open roles.
package network

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Suffixes stripped during normalization, longest first so ", inc." never
// leaves a dangling comma behind.
var companySuffixes = []string{
	", inc.",
	", inc",
	" inc.",
	" inc",
	" corporation",
	" company",
	" corp",
	" llc",
	" ltd",
	" co.",
}

// Connection is one row of the LinkedIn export.
type Connection struct {
	FirstName   string
	LastName    string
	URL         string
	Email       string
	Company     string
	Position    string
	ConnectedOn string
}

type Stats struct {
	TotalConnections int
	UniqueCompanies  int
}

// Matcher indexes connections by normalized company name.
type Matcher struct {
	connections []Connection
	byCompany   map[string][]Connection
}

// Load parses the LinkedIn Connections.csv export. The file starts with 3
// preamble lines (a "Notes:" header, a long note about hidden email
// addresses, and a blank line) before the real CSV header. A missing file is
// not an error; the matcher just stays empty.
func Load(path string) (*Matcher, error) {
	m := &Matcher{byCompany: map[string][]Connection{}}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[network] connections file not found: %s", path)
			return m, nil
		}
		return nil, fmt.Errorf("network: open connections: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	for i := 0; i < 3; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return m, nil
			}
			return nil, fmt.Errorf("network: read preamble: %w", err)
		}
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return m, nil
		}
		return nil, fmt.Errorf("network: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("network: read row: %w", err)
		}
		company := field(rec, "Company")
		if company == "" {
			continue
		}
		conn := Connection{
			FirstName:   field(rec, "First Name"),
			LastName:    field(rec, "Last Name"),
			URL:         field(rec, "URL"),
			Email:       field(rec, "Email Address"),
			Company:     company,
			Position:    field(rec, "Position"),
			ConnectedOn: field(rec, "Connected On"),
		}
		m.connections = append(m.connections, conn)
		key := normalize(company)
		m.byCompany[key] = append(m.byCompany[key], conn)
	}

	log.Printf("[network] loaded %d connections across %d unique companies",
		len(m.connections), len(m.byCompany))
	return m, nil
}

// Find returns connections at companyName: exact normalized match first,
// fuzzy fallback when nothing hits.
func (m *Matcher) Find(companyName string) []Connection {
	target := normalize(companyName)

	if conns, ok := m.byCompany[target]; ok {
		out := make([]Connection, len(conns))
		copy(out, conns)
		return out
	}

	var matches []Connection
	for indexed, conns := range m.byCompany {
		if fuzzy.Ratio(target, indexed) >= 85 || fuzzy.PartialRatio(target, indexed) >= 90 {
			matches = append(matches, conns...)
		}
	}
	return matches
}

func (m *Matcher) Stats() Stats {
	return Stats{
		TotalConnections: len(m.connections),
		UniqueCompanies:  len(m.byCompany),
	}
}

func normalize(name string) string {
	result := strings.TrimSpace(strings.ToLower(name))
	for _, suffix := range companySuffixes {
		if strings.HasSuffix(result, suffix) {
			result = result[:len(result)-len(suffix)]
			break
		}
	}
	return result
}
