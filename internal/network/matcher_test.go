package network

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `Notes:
"When exporting your connection data, you may notice that some of the email addresses are missing."

First Name,Last Name,URL,Email Address,Company,Position,Connected On
Dana,Walsh,https://www.linkedin.com/in/danawalsh,,Acme Corp,Director of Learning,12 Jan 2024
Priya,Nair,https://www.linkedin.com/in/priyanair,priya@example.com,Acme Corp,Enablement Lead,03 Mar 2023
Sam,Ortiz,https://www.linkedin.com/in/samortiz,,"Globex, Inc.",Product Manager,19 Aug 2022
Lee,,https://www.linkedin.com/in/lee,,,Freelance,01 Jan 2020
`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "connections.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSkipsPreamble(t *testing.T) {
	m, err := Load(writeExport(t, sampleExport))
	require.NoError(t, err)

	stats := m.Stats()
	assert.Equal(t, 3, stats.TotalConnections, "row with an empty company is dropped")
	assert.Equal(t, 2, stats.UniqueCompanies)
}

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Empty(t, m.Find("Acme Corp"))
	assert.Equal(t, Stats{}, m.Stats())
}

func TestFindExactNormalized(t *testing.T) {
	m, err := Load(writeExport(t, sampleExport))
	require.NoError(t, err)

	conns := m.Find("ACME, Inc.")
	require.Len(t, conns, 2)
	assert.Equal(t, "Dana", conns[0].FirstName)
	assert.Equal(t, "Enablement Lead", conns[1].Position)
}

func TestFindFuzzy(t *testing.T) {
	m, err := Load(writeExport(t, sampleExport))
	require.NoError(t, err)

	conns := m.Find("Globex Incorporated")
	require.Len(t, conns, 1)
	assert.Equal(t, "Sam", conns[0].FirstName)

	assert.Empty(t, m.Find("Initech"))
}
