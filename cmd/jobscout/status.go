package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/network"
	"jobscout-engine/internal/state"
)

func cmdStatus(configDir string, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := loadApp(configDir)
	if err != nil {
		return err
	}

	st, err := state.Open(a.settings.DataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	roster, err := config.LoadRoster(a.rosterPath)
	if err != nil {
		return err
	}

	reports, _ := filepath.Glob(filepath.Join(a.settings.DataDir, "reports", "*.md"))

	stats := st.Stats()
	fmt.Println("--- Job Search Status ---")
	fmt.Printf("Total jobs seen: %d\n", stats.SeenJobs)
	fmt.Printf("ATS companies monitored: %d\n", len(roster.Companies))
	fmt.Printf("Reports generated: %d\n", len(reports))
	fmt.Printf("Total query runs: %d\n", stats.TotalQueryRuns)

	if top := st.TopQueries(5); len(top) > 0 {
		fmt.Println("\nTop 5 performing queries:")
		for i, q := range top {
			fmt.Printf("  %d. %q (%d high-score hits, %d runs)\n",
				i+1, q.Query, q.TotalHighScoreJobs, q.TotalRuns)
		}
	}

	matcher, err := network.Load(connectionsPath(a.settings))
	if err != nil {
		return err
	}
	net := matcher.Stats()
	fmt.Printf("\nNetwork: %d connections across %d companies\n",
		net.TotalConnections, net.UniqueCompanies)
	return nil
}
