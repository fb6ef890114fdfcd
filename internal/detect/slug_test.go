package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanySlugs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single word", "Stripe", []string{"stripe"}},
		{"two words", "Khan Academy", []string{"khanacademy", "khan-academy", "khan_academy"}},
		{"comma inc suffix", "Figma, Inc.", []string{"figma"}},
		{"corp suffix", "Acme Corp", []string{"acme"}},
		{"punctuation dropped", "O'Reilly Media", []string{"oreillymedia", "oreilly-media", "oreilly_media"}},
		{"hyphen kept", "Jane-Doe Labs", []string{"jane-doelabs", "jane-doe-labs", "jane-doe_labs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompanySlugs(tt.in))
		})
	}
}

func TestNormalizeCompany(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "acme"},
		{"Acme Corporation", "acme"},
		{"Figma, Inc.", "figma"},
		{"Acme Plumbing Supply Co", "acme plumbing supply co"},
		{"  Spaced Out LLC ", "spaced out"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCompany(tt.in), "input %q", tt.in)
	}
}

func TestFullSlug(t *testing.T) {
	assert.Equal(t, "khanacademy", fullSlug("khan academy"))
	assert.Equal(t, "acmecorp", fullSlug("acme corp"))
}
