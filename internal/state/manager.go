package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// SeenMeta is the metadata projection persisted per posting. Entries are only
// ever written whole; there are no partial field updates.
type SeenMeta struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Source      string `json:"source"`
	Query       string `json:"query,omitempty"`
	FitScore    *int   `json:"fit_score"`
	TriageScore *int   `json:"triage_score,omitempty"`
	Deferred    bool   `json:"deferred,omitempty"`
	Rejected    bool   `json:"rejected,omitempty"`
	AdHoc       bool   `json:"adhoc,omitempty"`
	FirstSeen   string `json:"first_seen"`
	OriginalURL string `json:"original_url"`
}

// QueryRun is one history entry for a search query.
type QueryRun struct {
	Timestamp     string  `json:"timestamp"`
	JobsFound     int     `json:"jobs_found"`
	HighScoreJobs int     `json:"high_score_jobs"`
	AvgScore      float64 `json:"avg_score"`
}

// QueryRecord accumulates per-query performance. History is append-only and
// the aggregate counters never decrease.
type QueryRecord struct {
	History            []QueryRun `json:"history"`
	TotalRuns          int        `json:"total_runs"`
	TotalJobsFound     int        `json:"total_jobs_found"`
	TotalHighScoreJobs int        `json:"total_high_score_jobs"`
	LastRun            string     `json:"last_run,omitempty"`
}

// QueryStats is a ranked summary row returned by TopQueries.
type QueryStats struct {
	Query              string  `json:"query"`
	TotalRuns          int     `json:"total_runs"`
	TotalJobsFound     int     `json:"total_jobs_found"`
	TotalHighScoreJobs int     `json:"total_high_score_jobs"`
	AvgHighScoreYield  float64 `json:"avg_high_score_yield"`
	LastRun            string  `json:"last_run,omitempty"`
}

// Stats summarizes the stores for the status command.
type Stats struct {
	SeenJobs           int
	TrackedQueries     int
	TotalQueryRuns     int
	TotalJobsFound     int
	TotalHighScoreJobs int
}

// Manager owns the two durable stores: seen_jobs.json (canonical URL ->
// metadata) and query_performance.json. State lives in memory between Open
// and Save; Save rewrites both files wholesale via tmp+rename. A flock on the
// data dir is held for the manager's lifetime because two processes sharing
// the ledger would race on the rename.
type Manager struct {
	mu   sync.Mutex
	dir  string
	lock *flock.Flock

	seenPath  string
	queryPath string

	seen map[string]SeenMeta
	perf map[string]*QueryRecord
}

func Open(dataDir string) (*Manager, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("state: create data dir: %w", err)
	}

	lk := flock.New(filepath.Join(dataDir, ".jobscout.lock"))
	ok, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("state: lock data dir: %w", err)
	}
	if !ok {
		return nil, errors.New("state: another run holds the data dir lock")
	}

	m := &Manager{
		dir:       dataDir,
		lock:      lk,
		seenPath:  filepath.Join(dataDir, "seen_jobs.json"),
		queryPath: filepath.Join(dataDir, "query_performance.json"),
		seen:      map[string]SeenMeta{},
		perf:      map[string]*QueryRecord{},
	}

	if b, ok := readStore(m.seenPath); ok {
		var seen map[string]SeenMeta
		if err := json.Unmarshal(b, &seen); err != nil {
			log.Printf("[state] corrupt state file %s: %v; resetting", m.seenPath, err)
		} else if seen != nil {
			m.seen = seen
		}
	}
	if b, ok := readStore(m.queryPath); ok {
		var perf map[string]*QueryRecord
		if err := json.Unmarshal(b, &perf); err != nil {
			log.Printf("[state] corrupt state file %s: %v; resetting", m.queryPath, err)
		} else if perf != nil {
			m.perf = perf
		}
	}

	log.Printf("[state] loaded: %d seen jobs, %d tracked queries", len(m.seen), len(m.perf))
	return m, nil
}

// readStore reads a store file. A missing file is a first run, not an error.
func readStore(path string) ([]byte, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("[state] read %s: %v; starting empty", path, err)
		}
		return nil, false
	}
	return b, true
}

// IsSeen reports whether the posting behind rawURL was already processed.
func (m *Manager) IsSeen(rawURL string) bool {
	key := CanonicalURL(rawURL)
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[key]
	return ok
}

// MarkSeen records the posting under its canonical key, stamping first_seen
// (UTC) and the original URL. Any prior entry for the key is replaced.
func (m *Manager) MarkSeen(rawURL string, meta SeenMeta) {
	meta.FirstSeen = time.Now().UTC().Format(time.RFC3339)
	meta.OriginalURL = rawURL

	key := CanonicalURL(rawURL)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[key] = meta
}

// RecordQueryResult appends a history entry for query and bumps its
// aggregates, creating the record on first use.
func (m *Manager) RecordQueryResult(query string, jobsFound, highScoreJobs int, avgScore float64) {
	now := time.Now().UTC().Format(time.RFC3339)
	entry := QueryRun{
		Timestamp:     now,
		JobsFound:     jobsFound,
		HighScoreJobs: highScoreJobs,
		AvgScore:      math.Round(avgScore*10000) / 10000,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.perf[query]
	if !ok {
		rec = &QueryRecord{}
		m.perf[query] = rec
	}
	rec.History = append(rec.History, entry)
	rec.TotalRuns++
	rec.TotalJobsFound += jobsFound
	rec.TotalHighScoreJobs += highScoreJobs
	rec.LastRun = now
}

// TopQueries ranks queries by total_high_score_jobs / total_runs descending
// and returns the top n.
func (m *Manager) TopQueries(n int) []QueryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	ranked := make([]QueryStats, 0, len(m.perf))
	for q, rec := range m.perf {
		if rec.TotalRuns == 0 {
			continue
		}
		yield := float64(rec.TotalHighScoreJobs) / float64(rec.TotalRuns)
		ranked = append(ranked, QueryStats{
			Query:              q,
			TotalRuns:          rec.TotalRuns,
			TotalJobsFound:     rec.TotalJobsFound,
			TotalHighScoreJobs: rec.TotalHighScoreJobs,
			AvgHighScoreYield:  math.Round(yield*10000) / 10000,
			LastRun:            rec.LastRun,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvgHighScoreYield > ranked[j].AvgHighScoreYield
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Save persists both stores. Each file is serialized to a sibling .tmp and
// atomically renamed over the real file, so the on-disk state is never
// observed half-written.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := writeAtomic(m.seenPath, m.seen); err != nil {
		return fmt.Errorf("state: save seen jobs: %w", err)
	}
	if err := writeAtomic(m.queryPath, m.perf); err != nil {
		return fmt.Errorf("state: save query performance: %w", err)
	}
	log.Printf("[state] saved: %d seen jobs, %d tracked queries", len(m.seen), len(m.perf))
	return nil
}

func writeAtomic(path string, data any) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Close releases the data dir lock. The stores are not saved implicitly.
func (m *Manager) Close() error {
	return m.lock.Unlock()
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Stats{
		SeenJobs:       len(m.seen),
		TrackedQueries: len(m.perf),
	}
	for _, rec := range m.perf {
		st.TotalQueryRuns += rec.TotalRuns
		st.TotalJobsFound += rec.TotalJobsFound
		st.TotalHighScoreJobs += rec.TotalHighScoreJobs
	}
	return st
}
