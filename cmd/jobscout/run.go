package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/feeds"
	"jobscout-engine/internal/netutil"
	"jobscout-engine/internal/network"
	"jobscout-engine/internal/report"
	"jobscout-engine/internal/score"
	"jobscout-engine/internal/search"
	"jobscout-engine/internal/secrets"
	"jobscout-engine/internal/state"
	"jobscout-engine/internal/triage"
)

func cmdRun(configDir string, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

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

	roster, err := config.LoadRoster(a.rosterPath)
	if err != nil {
		return err
	}
	queries, err := config.LoadQueries(a.queriesPath)
	if err != nil {
		return err
	}

	matcher, err := network.Load(connectionsPath(a.settings))
	if err != nil {
		return err
	}

	anthropicKey, err := secrets.GetAPIKey(secrets.AccountAnthropic, "ANTHROPIC_API_KEY")
	if err != nil {
		return fmt.Errorf("scoring unavailable: %w", err)
	}
	searchKey, _ := secrets.GetAPIKey(secrets.AccountSearchAPI, "SEARCHAPI_API_KEY")

	limiter := netutil.NewHostLimiter(2, 4)

	// Discovery: ATS feeds and search queries in parallel. Both sources
	// swallow per-item errors internally, so the group only carries
	// cancellation.
	var atsJobs, searchJobs []domain.JobPosting
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		poller := feeds.NewPoller(st, limiter, a.settings.HoursOld)
		atsJobs = poller.FetchAll(gctx, roster.Companies)
		return nil
	})
	g.Go(func() error {
		client := search.NewClient(searchKey, st, a.settings.ResultsPerQuery)
		searchJobs = client.SearchAll(gctx, queries)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	allJobs := append(atsJobs, searchJobs...)
	log.Printf("[run] total new jobs discovered: %d (ATS %d, search %d)",
		len(allJobs), len(atsJobs), len(searchJobs))
	if len(allJobs) == 0 {
		fmt.Println("No new jobs found.")
		return st.Save()
	}

	// Cheap triage before any API spend.
	passed, rejected := triage.Run(allJobs, triage.Options{
		MinScore:        a.settings.MinTriageScore,
		MaxAgeHours:     a.settings.HoursOld,
		ExemptCompanies: a.settings.LocationExemptCompanies,
	})

	// Cap the scoring batch; overflow is marked seen as deferred so it
	// neither re-surfaces next run nor counts as evaluated.
	scoringBatch := passed
	if len(passed) > a.settings.MaxJobsPerRun {
		scoringBatch = passed[:a.settings.MaxJobsPerRun]
		for _, job := range passed[a.settings.MaxJobsPerRun:] {
			st.MarkSeen(job.URL, state.SeenMeta{
				Title:       job.Title,
				Company:     job.Company,
				Source:      job.Source,
				TriageScore: intPtr(job.Score),
				Deferred:    true,
			})
		}
		log.Printf("[run] capped at %d for scoring, %d lower-ranked deferred",
			a.settings.MaxJobsPerRun, len(passed)-a.settings.MaxJobsPerRun)
	}

	for _, job := range rejected {
		st.MarkSeen(job.URL, state.SeenMeta{
			Title:       job.Title,
			Company:     job.Company,
			Source:      job.Source,
			TriageScore: intPtr(0),
			Rejected:    true,
		})
	}

	scorer := score.New(score.Config{
		APIKey:    anthropicKey,
		Model:     a.settings.ClaudeModel,
		Threshold: a.settings.ScoreThreshold,
		MaxChars:  a.settings.DescriptionMaxChars,
		Profile:   a.profile,
		Reference: a.roleReference,
	})
	scoredJobs := scorer.ScoreBatch(ctx, scoringBatch, matcher)

	fits := make(map[string]int, len(scoredJobs))
	for _, job := range scoredJobs {
		fits[job.URL] = job.FitScore
	}
	for _, job := range scoringBatch {
		meta := state.SeenMeta{
			Title:   job.Title,
			Company: job.Company,
			Source:  job.Source,
		}
		if fit, ok := fits[job.URL]; ok {
			meta.FitScore = intPtr(fit)
		}
		st.MarkSeen(job.URL, meta)
	}

	recordQueryPerformance(st, scoringBatch, fits, a.settings.ScoreThreshold)

	gen, err := report.NewGenerator(a.settings.DataDir)
	if err != nil {
		return err
	}
	stats := report.RunStats{
		TotalScanned: len(allJobs),
		Sources:      fmt.Sprintf("ATS: %d, SearchAPI: %d", len(atsJobs), len(searchJobs)),
	}
	reportPath, err := gen.Generate(scoredJobs, stats, "", "")
	if err != nil {
		log.Printf("[run] report: %v", err)
	}

	if err := st.Save(); err != nil {
		return err
	}

	withConnections := 0
	for _, job := range scoredJobs {
		if len(job.Connections) > 0 {
			withConnections++
		}
	}
	fmt.Println("--- Summary ---")
	fmt.Printf("Total scanned: %d\n", len(allJobs))
	fmt.Printf("Passed threshold: %d\n", len(scoredJobs))
	fmt.Printf("With network connections: %d\n", withConnections)
	if reportPath != "" {
		fmt.Printf("Report saved: %s\n", reportPath)
	}
	return nil
}

// recordQueryPerformance aggregates the scoring batch per originating query
// and feeds the ledger's performance history.
func recordQueryPerformance(st *state.Manager, batch []triage.Result, fits map[string]int, threshold int) {
	type qstat struct {
		found     int
		highScore int
		scores    []int
	}
	stats := map[string]*qstat{}
	for _, job := range batch {
		q := job.Query
		if q == "" {
			q = "unknown"
		}
		qs := stats[q]
		if qs == nil {
			qs = &qstat{}
			stats[q] = qs
		}
		qs.found++
		if fit, ok := fits[job.URL]; ok {
			qs.scores = append(qs.scores, fit)
			if fit >= threshold {
				qs.highScore++
			}
		}
	}
	for q, qs := range stats {
		avg := 0.0
		if len(qs.scores) > 0 {
			sum := 0
			for _, s := range qs.scores {
				sum += s
			}
			avg = float64(sum) / float64(len(qs.scores))
		}
		st.RecordQueryResult(q, qs.found, qs.highScore, avg)
	}
}

func connectionsPath(s config.Settings) string {
	if s.ConnectionsCSV != "" {
		return s.ConnectionsCSV
	}
	return filepath.Join(s.DataDir, "connections.csv")
}

func intPtr(v int) *int { return &v }
