package recency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jobscout-engine/internal/domain"
)

func TestDecide(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	const maxAge = 72 // hours

	tests := []struct {
		name       string
		date       *domain.PostedDate
		wantRecent bool
		wantKnown  bool
	}{
		{"nil date", nil, false, false},
		{"epoch seconds fresh", domain.PostedEpoch(now.Add(-24 * time.Hour).Unix()), true, true},
		{"epoch seconds stale", domain.PostedEpoch(now.Add(-100 * time.Hour).Unix()), false, true},
		{"epoch milliseconds fresh", domain.PostedEpoch(now.Add(-24 * time.Hour).UnixMilli()), true, true},
		{"epoch milliseconds stale", domain.PostedEpoch(now.Add(-100 * time.Hour).UnixMilli()), false, true},
		{"iso with zulu fresh", domain.PostedText("2026-02-09T08:00:00Z"), true, true},
		{"iso with zulu stale", domain.PostedText("2026-02-01T08:00:00Z"), false, true},
		{"naive iso assumed utc", domain.PostedText("2026-02-09T08:00:00"), true, true},
		{"date only", domain.PostedText("2026-02-09"), true, true},
		{"posted today", domain.PostedText("Posted Today"), true, true},
		{"posted yesterday", domain.PostedText("Posted Yesterday"), true, true},
		{"posted 2 days ago", domain.PostedText("Posted 2 Days Ago"), true, true},
		{"posted 5 days ago", domain.PostedText("Posted 5 Days Ago"), false, true},
		{"posted 30+ days ago", domain.PostedText("Posted 30+ Days Ago"), false, true},
		{"unparseable text", domain.PostedText("a while back"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recent, known := Decide(tt.date, maxAge, now)
			assert.Equal(t, tt.wantRecent, recent, "recent")
			assert.Equal(t, tt.wantKnown, known, "known")
		})
	}
}

func TestRecentDefaultsToPass(t *testing.T) {
	now := time.Now()
	assert.True(t, Recent(nil, 72, now))
	assert.True(t, Recent(domain.PostedText("sometime in spring"), 72, now))
	assert.False(t, Recent(domain.PostedText("Posted 30+ Days Ago"), 72, now))
}
