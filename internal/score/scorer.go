// Package score is the LLM boundary: it evaluates triaged postings against
// the candidate profile with Claude and keeps those above a fit threshold.
package score

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/network"
	"jobscout-engine/internal/triage"
)

const (
	DefaultModel     = "claude-sonnet-4-5-20250929"
	DefaultThreshold = 60
	DefaultMaxChars  = 4000

	minDescriptionChars = 100
)

// ScoredJob is a posting that passed the fit threshold, carrying the model's
// verdict and any known connections at the company.
type ScoredJob struct {
	domain.JobPosting
	TriageScore      int                  `json:"triage_score"`
	FitScore         int                  `json:"fit_score"`
	Reasoning        string               `json:"reasoning"`
	SalarySignal     string               `json:"salary_signal"`
	SalaryDetails    string               `json:"salary_details,omitempty"`
	InnovationSignal string               `json:"innovation_signal"`
	SeniorityMatch   string               `json:"seniority_match"`
	KeyOverlaps      []string             `json:"key_overlaps"`
	KeyGaps          []string             `json:"key_gaps"`
	Connections      []network.Connection `json:"network_connections,omitempty"`
}

type verdict struct {
	FitScore         int      `json:"fit_score"`
	Reasoning        string   `json:"reasoning"`
	SalarySignal     string   `json:"salary_signal"`
	SalaryDetails    string   `json:"salary_details"`
	InnovationSignal string   `json:"innovation_signal"`
	SeniorityMatch   string   `json:"seniority_match"`
	KeyOverlaps      []string `json:"key_overlaps"`
	KeyGaps          []string `json:"key_gaps"`
}

// Scorer evaluates postings one at a time with a pause between API calls.
type Scorer struct {
	client    anthropic.Client
	model     string
	threshold int
	maxChars  int
	profile   json.RawMessage
	reference json.RawMessage
	pause     time.Duration
}

type Config struct {
	APIKey    string
	Model     string
	Threshold int
	MaxChars  int
	// Profile and Reference are opaque JSON documents inserted into the
	// prompt verbatim.
	Profile   json.RawMessage
	Reference json.RawMessage
}

func New(cfg Config) *Scorer {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.MaxChars == 0 {
		cfg.MaxChars = DefaultMaxChars
	}
	return &Scorer{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		threshold: cfg.Threshold,
		maxChars:  cfg.MaxChars,
		profile:   cfg.Profile,
		reference: cfg.Reference,
		pause:     500 * time.Millisecond,
	}
}

// ScoreBatch evaluates triaged postings in order. Postings with short or
// missing descriptions are skipped; per-posting errors are logged and the
// batch continues. Results above the threshold come back sorted by fit score
// descending.
func (s *Scorer) ScoreBatch(ctx context.Context, jobs []triage.Result, matcher *network.Matcher) []ScoredJob {
	var results []ScoredJob
	skipped := 0

	for i, job := range jobs {
		if len(job.Description) < minDescriptionChars {
			skipped++
			continue
		}

		var connections []network.Connection
		if matcher != nil {
			connections = matcher.Find(job.Company)
		}

		scored, err := s.scoreJob(ctx, job, connections)
		if err != nil {
			log.Printf("[score] %q at %q: %v", job.Title, job.Company, err)
		} else if scored != nil {
			results = append(results, *scored)
		}

		if (i+1)%10 == 0 {
			log.Printf("[score] progress: %d/%d jobs processed (%d passed, %d skipped)",
				i+1, len(jobs), len(results), skipped)
		}
		if i < len(jobs)-1 {
			select {
			case <-time.After(s.pause):
			case <-ctx.Done():
				return results
			}
		}
	}

	log.Printf("[score] complete: %d/%d jobs passed threshold (score >= %d), %d skipped",
		len(results), len(jobs), s.threshold, skipped)

	sort.SliceStable(results, func(i, j int) bool { return results[i].FitScore > results[j].FitScore })
	return results
}

func (s *Scorer) scoreJob(ctx context.Context, job triage.Result, connections []network.Connection) (*ScoredJob, error) {
	prompt := fmt.Sprintf(userPromptTemplate,
		string(s.profile),
		string(s.reference),
		orUnknown(job.Title),
		orUnknown(job.Company),
		orUnknown(job.Location),
		orUnknown(job.DatePosted.String()),
		truncateDescription(job.Description, s.maxChars),
		networkContext(job.Company, connections),
	)

	res, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("messages api: %w", err)
	}

	var text strings.Builder
	for _, block := range res.Content {
		text.WriteString(block.Text)
	}

	var v verdict
	if err := json.Unmarshal([]byte(stripFences(text.String())), &v); err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}

	if v.FitScore < s.threshold {
		return nil, nil
	}
	return &ScoredJob{
		JobPosting:       job.JobPosting,
		TriageScore:      job.Score,
		FitScore:         v.FitScore,
		Reasoning:        v.Reasoning,
		SalarySignal:     v.SalarySignal,
		SalaryDetails:    v.SalaryDetails,
		InnovationSignal: v.InnovationSignal,
		SeniorityMatch:   v.SeniorityMatch,
		KeyOverlaps:      v.KeyOverlaps,
		KeyGaps:          v.KeyGaps,
		Connections:      connections,
	}, nil
}

func networkContext(company string, connections []network.Connection) string {
	if len(connections) == 0 {
		return "No known connections at this company."
	}
	people := make([]string, 0, len(connections))
	for _, c := range connections {
		position := c.Position
		if position == "" {
			position = "Unknown role"
		}
		people = append(people, fmt.Sprintf("%s %s - %s", c.FirstName, c.LastName, position))
	}
	return fmt.Sprintf(
		"The candidate has %d connection(s) at %s: %s. This means the candidate can get a warm introduction or internal referral, which materially improves application success.",
		len(connections), company, strings.Join(people, ", "))
}

// truncateDescription cuts at a sentence boundary near the limit when one
// exists in the last quarter, otherwise hard cuts.
func truncateDescription(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	truncated := text[:maxChars]
	breakPoint := strings.LastIndex(truncated, ". ")
	if nl := strings.LastIndex(truncated, "\n"); nl > breakPoint {
		breakPoint = nl
	}
	if breakPoint > maxChars*3/4 {
		return strings.TrimRight(truncated[:breakPoint+1], " \t\n")
	}
	return strings.TrimRight(truncated, " \t\n")
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = s[3:]
	}
	s = strings.TrimRight(s, " \t\n")
	if strings.HasSuffix(s, "```") {
		s = strings.TrimRight(s[:len(s)-3], " \t\n")
	}
	return s
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
