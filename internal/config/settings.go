package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the run tunables, kept in a YAML file. The company roster and
// discovery queries live in separate JSON documents whose on-disk formats are
// part of the external interface.
type Settings struct {
	DataDir             string `yaml:"data_dir"`
	HoursOld            int    `yaml:"hours_old"`
	MinTriageScore      int    `yaml:"min_triage_score"`
	MaxJobsPerRun       int    `yaml:"max_jobs_per_run"`
	ScoreThreshold      int    `yaml:"score_threshold"`
	DescriptionMaxChars int    `yaml:"description_max_chars"`
	ClaudeModel         string `yaml:"claude_model"`
	ResultsPerQuery     int    `yaml:"results_per_query"`

	// Companies whose postings bypass the location policy.
	LocationExemptCompanies []string `yaml:"location_exempt_companies"`

	// Path to the LinkedIn Connections.csv export; empty disables network
	// matching.
	ConnectionsCSV string `yaml:"connections_csv"`

	Verbose bool `yaml:"verbose"`
}

func Defaults() Settings {
	return Settings{
		DataDir:             "data",
		HoursOld:            72,
		MinTriageScore:      1,
		MaxJobsPerRun:       50,
		ScoreThreshold:      60,
		DescriptionMaxChars: 4000,
		ClaudeModel:         "claude-sonnet-4-5-20250929",
		ResultsPerQuery:     20,
	}
}

// Load reads settings from path, filling unset fields with defaults. A
// missing file returns pure defaults.
func Load(path string) (Settings, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Settings) error {
	var errs []string

	if cfg.DataDir == "" {
		errs = append(errs, "data_dir is required")
	}
	if cfg.HoursOld <= 0 {
		errs = append(errs, "hours_old must be > 0")
	}
	if cfg.MinTriageScore < 0 || cfg.MinTriageScore > 10 {
		errs = append(errs, "min_triage_score must be 0..10")
	}
	if cfg.MaxJobsPerRun <= 0 {
		errs = append(errs, "max_jobs_per_run must be > 0")
	}
	if cfg.ScoreThreshold < 0 || cfg.ScoreThreshold > 100 {
		errs = append(errs, "score_threshold must be 0..100")
	}
	if cfg.DescriptionMaxChars < 100 {
		errs = append(errs, "description_max_chars must be >= 100")
	}
	if cfg.ResultsPerQuery <= 0 {
		errs = append(errs, "results_per_query must be > 0")
	}

	if len(errs) > 0 {
		return errors.New("settings validation failed:\n- " + joinLines(errs))
	}
	return nil
}

// SaveAtomic validates and writes settings via temp file plus rename, keeping
// the previous file as a .bak.
func SaveAtomic(path string, cfg Settings) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
