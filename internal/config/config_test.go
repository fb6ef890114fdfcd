package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadPartialOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hours_old: 24\nlocation_exempt_companies:\n  - Acme\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.HoursOld)
	assert.Equal(t, []string{"Acme"}, cfg.LocationExemptCompanies)
	// Everything unset keeps its default.
	assert.Equal(t, Defaults().ScoreThreshold, cfg.ScoreThreshold)
	assert.Equal(t, Defaults().ClaudeModel, cfg.ClaudeModel)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Defaults()))

	bad := Defaults()
	bad.HoursOld = 0
	bad.ScoreThreshold = 150
	err := Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hours_old must be > 0")
	assert.Contains(t, err.Error(), "score_threshold must be 0..100")
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := Defaults()
	cfg.HoursOld = 48
	require.NoError(t, SaveAtomic(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	// Second save keeps the previous file as .bak.
	cfg.HoursOld = 24
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	bad := Defaults()
	bad.MaxJobsPerRun = 0
	require.Error(t, SaveAtomic(path, bad))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "invalid settings must not be written")
}

func TestRoster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "companies.json")

	r, err := LoadRoster(path)
	require.NoError(t, err)
	assert.Empty(t, r.Companies)

	assert.True(t, r.Add(domain.CompanyBoard{Name: "Acme", Platform: domain.PlatformGreenhouse, BoardToken: "acme"}))
	assert.False(t, r.Add(domain.CompanyBoard{Name: "ACME", Platform: domain.PlatformLever, BoardToken: "acme"}), "names compare case-insensitively")
	assert.True(t, r.Add(domain.CompanyBoard{Name: "Globex", Platform: domain.PlatformAshby, BoardToken: "globex"}))

	require.NoError(t, SaveRoster(path, r))

	got, err := LoadRoster(path)
	require.NoError(t, err)
	require.Len(t, got.Companies, 2)
	assert.Equal(t, "Acme", got.Companies[0].Name)
	assert.True(t, got.Has("globex"))
}

func TestLoadQueries(t *testing.T) {
	dir := t.TempDir()

	qs, err := LoadQueries(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Nil(t, qs)

	path := filepath.Join(dir, "queries.json")
	doc := `{"searchapi":{"queries":[
		{"query":"\"ai enablement\" jobs"},
		{"query":"\"ai training lead\"","enabled":false}
	]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	qs, err = LoadQueries(path)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.True(t, qs[0].IsEnabled())
	assert.False(t, qs[1].IsEnabled())
}

func TestLoadDocument(t *testing.T) {
	dir := t.TempDir()

	doc, err := LoadDocument(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(doc))

	path := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"x"}`), 0o644))
	doc, err = LoadDocument(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(doc))

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	_, err = LoadDocument(path)
	assert.Error(t, err)
}
