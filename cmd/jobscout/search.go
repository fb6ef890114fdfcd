package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/network"
	"jobscout-engine/internal/report"
	"jobscout-engine/internal/score"
	"jobscout-engine/internal/search"
	"jobscout-engine/internal/secrets"
	"jobscout-engine/internal/state"
	"jobscout-engine/internal/triage"
)

func cmdSearch(configDir string, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: jobscout search <query>")
	}
	query := fs.Arg(0)

	a, err := loadApp(configDir)
	if err != nil {
		return err
	}
	ctx := context.Background()

	st, err := state.Open(a.settings.DataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	searchKey, err := secrets.GetAPIKey(secrets.AccountSearchAPI, "SEARCHAPI_API_KEY")
	if err != nil {
		return err
	}
	anthropicKey, err := secrets.GetAPIKey(secrets.AccountAnthropic, "ANTHROPIC_API_KEY")
	if err != nil {
		return err
	}

	fmt.Printf("Searching for: %s\n", query)
	client := search.NewClient(searchKey, st, a.settings.ResultsPerQuery)
	results, err := client.Search(ctx, query)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d results\n", len(results))
	if len(results) == 0 {
		return nil
	}

	matcher, err := network.Load(connectionsPath(a.settings))
	if err != nil {
		return err
	}

	scorer := score.New(score.Config{
		APIKey:    anthropicKey,
		Model:     a.settings.ClaudeModel,
		Threshold: a.settings.ScoreThreshold,
		MaxChars:  a.settings.DescriptionMaxChars,
		Profile:   a.profile,
		Reference: a.roleReference,
	})
	scoredJobs := scorer.ScoreBatch(ctx, adhocBatch(results), matcher)

	fits := make(map[string]int, len(scoredJobs))
	for _, job := range scoredJobs {
		fits[job.URL] = job.FitScore
	}
	for _, job := range results {
		meta := state.SeenMeta{
			Title:   job.Title,
			Company: job.Company,
			Source:  job.Source,
			Query:   query,
			AdHoc:   true,
		}
		if fit, ok := fits[job.URL]; ok {
			meta.FitScore = intPtr(fit)
		}
		st.MarkSeen(job.URL, meta)
	}
	if err := st.Save(); err != nil {
		return err
	}

	gen, err := report.NewGenerator(a.settings.DataDir)
	if err != nil {
		return err
	}
	now := time.Now()
	safeQuery := sanitizeForFilename(query)
	reportFile := fmt.Sprintf("search-%s-%s.md", safeQuery, now.Format("2006-01-02-150405"))
	title := fmt.Sprintf("Ad-Hoc Search: %s -- %s", query, now.Format("2006-01-02"))
	stats := report.RunStats{TotalScanned: len(results), Sources: "SearchAPI (ad-hoc)"}
	reportPath, err := gen.Generate(scoredJobs, stats, reportFile, title)
	if err != nil {
		return err
	}

	// Companion JSON with the structured results.
	jsonPath := strings.TrimSuffix(reportPath, ".md") + ".json"
	payload, err := json.MarshalIndent(map[string]any{
		"query":         query,
		"timestamp":     now.Format(time.RFC3339),
		"total_scanned": len(results),
		"matches":       len(scoredJobs),
		"jobs":          scoredJobs,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(jsonPath, append(payload, '\n'), 0o644); err != nil {
		return err
	}

	fmt.Printf("\n--- Results (%d passed threshold) ---\n", len(scoredJobs))
	for _, job := range scoredJobs {
		connStr := ""
		if len(job.Connections) > 0 {
			names := make([]string, 0, len(job.Connections))
			for _, c := range job.Connections {
				names = append(names, strings.TrimSpace(c.FirstName+" "+c.LastName))
			}
			connStr = fmt.Sprintf(" [Network: %s]", strings.Join(names, ", "))
		}
		fmt.Printf("  [%3d] %s @ %s%s\n", job.FitScore, job.Title, job.Company, connStr)
	}
	fmt.Printf("\nReport saved: %s\nData saved: %s\n", reportPath, jsonPath)
	return nil
}

// adhocBatch wraps raw search results for the scorer; ad-hoc searches are
// scored without triage.
func adhocBatch(jobs []domain.JobPosting) []triage.Result {
	out := make([]triage.Result, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, triage.Result{JobPosting: job, Reason: triage.ReasonNone})
	}
	return out
}

func sanitizeForFilename(q string) string {
	q = strings.ReplaceAll(q, " ", "-")
	q = strings.ReplaceAll(q, string(filepath.Separator), "-")
	if len(q) > 40 {
		q = q[:40]
	}
	return q
}
