package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		job  domain.JobPosting
		want int
	}{
		{
			name: "reject pattern beats a relevant description",
			job: domain.JobPosting{
				Title:       "Senior Software Engineer",
				Description: "ai enablement, instructional design, change management, coaching, workshop",
			},
			want: 0,
		},
		{
			name: "ai enablement manager on title alone",
			job:  domain.JobPosting{Title: "AI Enablement Manager"},
			want: 6,
		},
		{
			name: "description hits cap at four",
			job: domain.JobPosting{
				Title:       "Coordinator",
				Description: "generative ai, llm, prompt engineering, upskill, reskill, coaching, workshop",
			},
			want: 4,
		},
		{
			name: "score clamps at ten",
			job: domain.JobPosting{
				Title:       "AI Training and Learning Experience Director",
				Description: "ai adoption, curriculum development, enablement, hands-on, edtech",
			},
			want: 10,
		},
		{
			name: "no signal scores zero",
			job:  domain.JobPosting{Title: "Groundskeeper", Description: "Mow lawns."},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.job))
		})
	}
}

func TestPassesLocation(t *testing.T) {
	tests := []struct {
		name string
		job  domain.JobPosting
		want bool
	}{
		{"empty location passes", domain.JobPosting{}, true},
		{"remote phrase", domain.JobPosting{Location: "Remote - US"}, true},
		{"front range city", domain.JobPosting{Location: "Boulder, Colorado"}, true},
		{"state abbreviation uppercase", domain.JobPosting{Location: "Denver Metro, CO"}, true},
		{"co inside a word does not count", domain.JobPosting{Location: "Chicago, IL"}, false},
		{"onsite elsewhere", domain.JobPosting{Location: "Fully On-site, Austin, TX", IsRemote: boolPtr(false)}, false},
		{"remote flag rescues unknown city", domain.JobPosting{Location: "Austin, TX", IsRemote: boolPtr(true)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PassesLocation(tt.job))
		})
	}
}

func TestRequiresTechnicalDegree(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want bool
	}{
		{"bs in cs", "BS in Computer Science required", true},
		{"bachelors degree in engineering", "Bachelor's degree in Mechanical Engineering or related", true},
		{"degree in a technical field", "degree in a computer science discipline", true},
		{"field mentioned without degree phrase", "You will work with computer science teams daily", false},
		{"non-technical degree", "Master's degree in Education or Adult Learning", false},
		{"degree phrase split from field", "A degree is preferred. Background in mathematics helps.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, requiresTechnicalDegree(tt.desc))
		})
	}
}

func TestRunStages(t *testing.T) {
	jobs := []domain.JobPosting{
		{Title: "Senior Software Engineer", URL: "https://x.test/1", Description: "ai enablement everywhere"},
		{Title: "AI Enablement Manager", URL: "https://x.test/2"},
		{Title: "Learning Experience Designer", URL: "https://x.test/3", Location: "Fully On-site, Austin, TX", IsRemote: boolPtr(false)},
		{Title: "Training Program Manager", URL: "https://x.test/4", Description: "BS in Computer Science required"},
	}
	passed, rejected := Run(jobs, Options{MinScore: 1})

	require.Len(t, passed, 1)
	assert.Equal(t, "https://x.test/2", passed[0].URL)
	assert.Equal(t, 6, passed[0].Score)
	assert.Equal(t, ReasonNone, passed[0].Reason)

	reasons := map[string]Reason{}
	for _, r := range rejected {
		reasons[r.URL] = r.Reason
	}
	assert.Equal(t, ReasonKeyword, reasons["https://x.test/1"])
	assert.Equal(t, ReasonLocation, reasons["https://x.test/3"])
	assert.Equal(t, ReasonDegree, reasons["https://x.test/4"])
}

func TestRunLocationExemption(t *testing.T) {
	job := domain.JobPosting{
		Title:    "Learning Experience Designer",
		Company:  "Acme Corp.",
		URL:      "https://x.test/onsite",
		Location: "Fully On-site, Austin, TX",
		IsRemote: boolPtr(false),
	}

	passed, rejected := Run([]domain.JobPosting{job}, Options{MinScore: 1})
	assert.Empty(t, passed)
	require.Len(t, rejected, 1)
	assert.Equal(t, ReasonLocation, rejected[0].Reason)

	passed, rejected = Run([]domain.JobPosting{job}, Options{MinScore: 1, ExemptCompanies: []string{"Acme"}})
	require.Len(t, passed, 1)
	assert.Empty(t, rejected)
}

func TestRunAgeAsymmetry(t *testing.T) {
	base := domain.JobPosting{Title: "AI Enablement Manager", URL: "https://x.test/undated"}

	fromFeed := base
	fromFeed.Source = "jobspy"
	passed, _ := Run([]domain.JobPosting{fromFeed}, Options{MinScore: 1, MaxAgeHours: 72})
	assert.Len(t, passed, 1, "unknown date from a scraped feed gets the benefit of the doubt")

	fromSearch := base
	fromSearch.Source = "searchapi"
	passed, rejected := Run([]domain.JobPosting{fromSearch}, Options{MinScore: 1, MaxAgeHours: 72})
	assert.Empty(t, passed)
	require.Len(t, rejected, 1)
	assert.Equal(t, ReasonAge, rejected[0].Reason)

	// Age stage off entirely when no window is configured.
	passed, _ = Run([]domain.JobPosting{fromSearch}, Options{MinScore: 1})
	assert.Len(t, passed, 1)
}

func TestRunSortsByScoreDescending(t *testing.T) {
	jobs := []domain.JobPosting{
		{Title: "Enablement Coordinator", URL: "https://x.test/low"},
		{Title: "AI Training and Learning Experience Director", URL: "https://x.test/high",
			Description: "ai adoption, curriculum development, enablement, hands-on, edtech"},
		{Title: "AI Enablement Manager", URL: "https://x.test/mid"},
	}
	passed, _ := Run(jobs, Options{MinScore: 1})
	require.Len(t, passed, 3)
	assert.Equal(t, "https://x.test/high", passed[0].URL)
	assert.Equal(t, "https://x.test/mid", passed[1].URL)
	assert.Equal(t, "https://x.test/low", passed[2].URL)
	for i := 1; i < len(passed); i++ {
		assert.GreaterOrEqual(t, passed[i-1].Score, passed[i].Score)
	}
}
