// Package recency decides whether a posting's heterogeneous "posted"
// representation falls within a maximum-age ceiling.
package recency

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
)

var daysAgoRe = regexp.MustCompile(`(\d+)\+?\s*days?\s*ago`)

// Decide evaluates d against a ceiling of maxAgeHours.
// known is false when the representation is absent or unparseable; callers
// choose the default in that case (the feed pollers pass, the triage age
// stage rejects for search-sourced postings).
func Decide(d *domain.PostedDate, maxAgeHours int, now time.Time) (recent, known bool) {
	if d == nil {
		return false, false
	}

	if d.Epoch != 0 {
		return epochWithin(d.Epoch, maxAgeHours, now), true
	}

	s := strings.TrimSpace(d.Text)
	if s == "" {
		return false, false
	}

	lower := strings.ToLower(s)

	// Relative phrases ("Posted Today", "Posted 2 Days Ago", "30+ Days Ago").
	if strings.Contains(lower, "today") || strings.Contains(lower, "yesterday") {
		return true, true
	}
	if m := daysAgoRe.FindStringSubmatch(lower); m != nil {
		days, _ := strconv.Atoi(m[1])
		return days*24 <= maxAgeHours, true
	}
	if strings.Contains(lower, "30+") {
		// Open-ended "more than 30 days"; no hard count to compare.
		return false, true
	}

	if t, ok := parseTimestamp(s); ok {
		cutoff := now.UTC().Add(-time.Duration(maxAgeHours) * time.Hour)
		return !t.Before(cutoff), true
	}

	return false, false
}

// Recent is Decide with the benefit-of-the-doubt default: unparseable or
// absent dates pass.
func Recent(d *domain.PostedDate, maxAgeHours int, now time.Time) bool {
	recent, known := Decide(d, maxAgeHours, now)
	if !known {
		return true
	}
	return recent
}

func epochWithin(v int64, maxAgeHours int, now time.Time) bool {
	var t time.Time
	if v > 1_000_000_000_000 { // magnitudes above 1e12 are milliseconds
		t = time.UnixMilli(v)
	} else {
		t = time.Unix(v, 0)
	}
	cutoff := now.UTC().Add(-time.Duration(maxAgeHours) * time.Hour)
	return !t.UTC().Before(cutoff)
}

func parseTimestamp(s string) (time.Time, bool) {
	// RFC3339 covers the "Z"-suffixed and offset forms.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	// Naive ISO forms are assumed UTC.
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	// Some boards hand back an epoch as a string.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > 1_000_000_000_000 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}
	return time.Time{}, false
}
