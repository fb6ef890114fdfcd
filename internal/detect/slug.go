package detect

import (
	"regexp"
	"strings"
)

// Corporate suffixes stripped before slugging, longest-match-first so
// ", Inc." goes before " Inc".
var slugSuffixes = []string{
	", inc.", ", inc", " inc.", " inc", " corporation", " corp.",
	" corp", " llc", " ltd.", " ltd", " co.", " co",
}

// Suffixes stripped when normalizing for name comparison. Only the first
// match is removed.
var normalizeSuffixes = []string{
	", inc.", ", inc", " inc.", " inc", " corporation",
	" corp.", " corp", " llc", " ltd.", " ltd", " co.",
}

var (
	nonSlugRe  = regexp.MustCompile(`[^a-z0-9\s\-]`)
	spacesRe   = regexp.MustCompile(`\s+`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)
)

// CompanySlugs generates candidate board-token slugs from a display name.
// Most boards use a lowercase slug derived from the company name; three
// variants cover the common separator conventions.
func CompanySlugs(companyName string) []string {
	name := strings.TrimSpace(companyName)
	lower := strings.ToLower(name)
	for _, suffix := range slugSuffixes {
		if strings.HasSuffix(lower, suffix) {
			name = name[:len(name)-len(suffix)]
			lower = lower[:len(lower)-len(suffix)]
		}
	}

	cleaned := strings.TrimSpace(nonSlugRe.ReplaceAllString(strings.ToLower(name), ""))

	var slugs []string
	add := func(s string) {
		if s == "" {
			return
		}
		for _, have := range slugs {
			if have == s {
				return
			}
		}
		slugs = append(slugs, s)
	}

	add(spacesRe.ReplaceAllString(cleaned, ""))  // "khan academy" -> "khanacademy"
	add(spacesRe.ReplaceAllString(cleaned, "-")) // "khan academy" -> "khan-academy"
	add(spacesRe.ReplaceAllString(cleaned, "_")) // "khan academy" -> "khan_academy"

	return slugs
}

// NormalizeCompany lowercases a company name and strips the first matching
// corporate suffix, for dedup and fuzzy comparison.
func NormalizeCompany(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range normalizeSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = normalized[:len(normalized)-len(suffix)]
			break
		}
	}
	return strings.TrimSpace(normalized)
}

// fullSlug reduces a normalized company name to bare alphanumerics.
func fullSlug(normalized string) string {
	return nonAlnumRe.ReplaceAllString(normalized, "")
}
