package score

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobscout-engine/internal/network"
)

func TestTruncateDescription(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
	}{
		{
			name:     "short text untouched",
			text:     "A short description.",
			maxChars: 100,
			want:     "A short description.",
		},
		{
			name:     "cuts at sentence boundary in last quarter",
			text:     strings.Repeat("x", 90) + ". " + strings.Repeat("y", 50),
			maxChars: 100,
			want:     strings.Repeat("x", 90) + ".",
		},
		{
			name:     "newline beats an earlier period",
			text:     strings.Repeat("x", 80) + ". " + strings.Repeat("y", 10) + "\n" + strings.Repeat("z", 50),
			maxChars: 100,
			want:     strings.Repeat("x", 80) + ". " + strings.Repeat("y", 10),
		},
		{
			name:     "hard cut when no boundary near the limit",
			text:     "First. " + strings.Repeat("z", 200),
			maxChars: 100,
			want:     "First. " + strings.Repeat("z", 93),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateDescription(tt.text, tt.maxChars)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), tt.maxChars)
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"fit_score": 80}`, `{"fit_score": 80}`},
		{"json fence", "```json\n{\"fit_score\": 80}\n```", `{"fit_score": 80}`},
		{"plain fence", "```\n{}\n```", "{}"},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.in))
		})
	}
}

func TestNetworkContext(t *testing.T) {
	assert.Equal(t, "No known connections at this company.", networkContext("Acme", nil))

	got := networkContext("Acme", []network.Connection{
		{FirstName: "Dana", LastName: "Walsh", Position: "Director of Learning"},
		{FirstName: "Sam", LastName: "Ortiz"},
	})
	assert.Contains(t, got, "2 connection(s) at Acme")
	assert.Contains(t, got, "Dana Walsh - Director of Learning")
	assert.Contains(t, got, "Sam Ortiz - Unknown role")
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Config{APIKey: "k"})
	assert.Equal(t, DefaultModel, s.model)
	assert.Equal(t, DefaultThreshold, s.threshold)
	assert.Equal(t, DefaultMaxChars, s.maxChars)
}
