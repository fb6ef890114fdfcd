// Package report renders scored runs into daily markdown reports.
package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobscout-engine/internal/score"
)

// RunStats summarizes the discovery side of a run for the report header.
type RunStats struct {
	TotalScanned int
	Sources      string
}

// Generator writes reports under <dataDir>/reports.
type Generator struct {
	dir string
}

func NewGenerator(dataDir string) (*Generator, error) {
	dir := filepath.Join(dataDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: create dir: %w", err)
	}
	return &Generator{dir: dir}, nil
}

// Generate writes a markdown report of scored jobs (already sorted by fit
// score descending) and returns the file path. Empty filename or title get
// dated defaults.
func (g *Generator) Generate(jobs []score.ScoredJob, stats RunStats, filename, title string) (string, error) {
	today := time.Now().Format("2006-01-02")
	if filename == "" {
		filename = today + ".md"
	}
	if title == "" {
		title = "Job Search Report -- " + today
	}
	path := filepath.Join(g.dir, filename)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**Jobs scanned:** %d | **New matches:** %d | **Sources:** %s\n\n---\n",
		stats.TotalScanned, len(jobs), stats.Sources)

	if len(jobs) == 0 {
		fmt.Fprintf(&b, "\nNo new matches found today. %d jobs were scanned.\n\n", stats.TotalScanned)
	} else {
		for i, job := range jobs {
			b.WriteString("\n")
			writeJob(&b, i+1, job)
			b.WriteString("---\n")
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	log.Printf("[report] saved to %s", path)
	return path, nil
}

func writeJob(b *strings.Builder, number int, job score.ScoredJob) {
	remote := "Unknown"
	if job.IsRemote != nil && *job.IsRemote {
		remote = "Yes"
	}

	fmt.Fprintf(b, "## %d. %s at %s\n\n", number, orDefault(job.Title, "Unknown Title"), orDefault(job.Company, "Unknown Company"))
	fmt.Fprintf(b, "**Score:** %d/100 | **Seniority:** %s | **Innovation:** %s\n\n",
		job.FitScore, orDefault(job.SeniorityMatch, "Unknown"), orDefault(job.InnovationSignal, "Unknown"))
	fmt.Fprintf(b, "**Salary:** %s\n", salaryLine(job))
	fmt.Fprintf(b, "**Location:** %s | **Remote:** %s\n", orDefault(job.Location, "Unknown"), remote)
	fmt.Fprintf(b, "**Posted:** %s | **Source:** %s\n\n",
		orDefault(job.DatePosted.String(), "Unknown"), orDefault(job.Source, "Unknown"))
	fmt.Fprintf(b, "**Why this fits:** %s\n\n", orDefault(job.Reasoning, "No reasoning provided."))
	fmt.Fprintf(b, "**Key overlaps:** %s\n", joinOrNone(job.KeyOverlaps))
	fmt.Fprintf(b, "**Gaps to address:** %s\n", joinOrNone(job.KeyGaps))

	if len(job.Connections) > 0 {
		fmt.Fprintf(b, "\n**Connections at %s:**\n", job.Company)
		for _, c := range job.Connections {
			fmt.Fprintf(b, "- [%s %s](%s) -- %s\n",
				c.FirstName, c.LastName, orDefault(c.URL, "#"), orDefault(c.Position, "Unknown"))
		}
	}

	fmt.Fprintf(b, "\n**[Apply](%s)**\n\n", orDefault(job.URL, "#"))
}

// salaryLine formats salary info by priority: the model's extracted details,
// then any structured range from the source, then "Not listed".
func salaryLine(job score.ScoredJob) string {
	signal := orDefault(job.SalarySignal, "unknown")
	if job.SalaryDetails != "" {
		return fmt.Sprintf("%s (%s)", job.SalaryDetails, signal)
	}
	switch {
	case job.SalaryMin != nil && job.SalaryMax != nil:
		return fmt.Sprintf("$%.0f - $%.0f", *job.SalaryMin, *job.SalaryMax)
	case job.SalaryMin != nil:
		return fmt.Sprintf("$%.0f+", *job.SalaryMin)
	case job.SalaryMax != nil:
		return fmt.Sprintf("Up to $%.0f", *job.SalaryMax)
	}
	return fmt.Sprintf("Not listed (%s)", signal)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None identified"
	}
	return strings.Join(items, ", ")
}
