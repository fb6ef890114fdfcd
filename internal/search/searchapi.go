// Package search discovers postings through SearchAPI.io Google queries,
// targeting niche boards and career pages the ATS feeds never see.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
)

const defaultBase = "https://www.searchapi.io/api/v1/search"

// Substrings that mark a search result as a probable job posting.
var jobIndicators = []string{
	"/jobs/",
	"/careers/",
	"/positions/",
	"/job/",
	"/apply/",
	"greenhouse.io",
	"lever.co",
	"ashbyhq.com",
	"workday.com",
	"posting",
	"apply now",
	"we're hiring",
	"job description",
	"we are looking for",
	"qualifications",
	"responsibilities",
}

// Ledger is the read side of the dedup store.
type Ledger interface {
	IsSeen(rawURL string) bool
}

// Query is one configured discovery search.
type Query struct {
	Query   string `json:"query"`
	Enabled *bool  `json:"enabled,omitempty"` // nil means enabled
}

func (q Query) IsEnabled() bool { return q.Enabled == nil || *q.Enabled }

// Client runs Google searches via SearchAPI.io.
type Client struct {
	hc      *http.Client
	ledger  Ledger
	apiKey  string
	base    string
	results int
	// pause between queries, shortened in tests
	pause time.Duration
}

func NewClient(apiKey string, ledger Ledger, resultsPerQuery int) *Client {
	if resultsPerQuery <= 0 {
		resultsPerQuery = 20
	}
	return &Client{
		hc:      &http.Client{Timeout: 30 * time.Second},
		ledger:  ledger,
		apiKey:  apiKey,
		base:    defaultBase,
		results: resultsPerQuery,
		pause:   time.Second,
	}
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

type organicResult struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

// SearchAll runs every enabled query and returns the combined job-like
// results. A failed query is logged and skipped.
func (c *Client) SearchAll(ctx context.Context, queries []Query) []domain.JobPosting {
	if c.apiKey == "" {
		log.Printf("[search] API key not configured; skipping search discovery")
		return nil
	}

	var enabled []Query
	for _, q := range queries {
		if q.IsEnabled() {
			enabled = append(enabled, q)
		}
	}
	if len(enabled) == 0 {
		log.Printf("[search] no queries configured")
		return nil
	}

	var all []domain.JobPosting
	for i, q := range enabled {
		jobs, err := c.Search(ctx, q.Query)
		if err != nil {
			log.Printf("[search] query %d/%d %q failed: %v", i+1, len(enabled), q.Query, err)
		} else {
			log.Printf("[search] query %d/%d %q: found %d job-like results", i+1, len(enabled), q.Query, len(jobs))
			all = append(all, jobs...)
		}
		if i < len(enabled)-1 {
			select {
			case <-time.After(c.pause):
			case <-ctx.Done():
				return all
			}
		}
	}
	log.Printf("[search] discovery complete: %d total results", len(all))
	return all
}

// Search runs a single query. Used directly by the ad-hoc search command.
func (c *Client) Search(ctx context.Context, query string) ([]domain.JobPosting, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", fmt.Sprint(c.results))
	params.Set("tbs", "qdr:d3") // past 3 days

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searchapi request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("searchapi status %d", res.StatusCode)
	}

	var data searchResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("searchapi decode: %w", err)
	}
	return c.parseResults(data, query), nil
}

func (c *Client) parseResults(data searchResponse, query string) []domain.JobPosting {
	var jobs []domain.JobPosting
	for _, r := range data.OrganicResults {
		if r.Link == "" || c.ledger.IsSeen(r.Link) {
			continue
		}
		if !looksLikeJob(r.Link, r.Title, r.Snippet) {
			continue
		}
		jobs = append(jobs, domain.JobPosting{
			Title:       r.Title,
			Company:     extractCompany(r.Link, r.Title),
			URL:         r.Link,
			Description: r.Snippet,
			DatePosted:  domain.PostedText(r.Date),
			Source:      "searchapi",
			Query:       query,
		})
	}
	return jobs
}

func looksLikeJob(link, title, snippet string) bool {
	combined := strings.ToLower(link + " " + title + " " + snippet)
	for _, indicator := range jobIndicators {
		if strings.Contains(combined, indicator) {
			return true
		}
	}
	return false
}

// extractCompany pulls a company name out of an ATS board URL, a "Title -
// Company" result title, or failing both, the bare domain.
func extractCompany(link, title string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	hostname := strings.ToLower(u.Hostname())

	for _, ats := range []string{"boards.greenhouse.io", "jobs.lever.co", "jobs.ashbyhq.com"} {
		if hostname != ats {
			continue
		}
		for _, seg := range strings.Split(strings.ToLower(u.Path), "/") {
			if seg != "" {
				return seg
			}
		}
	}

	for _, sep := range []string{" - ", " | ", " at ", " — "} {
		if strings.Contains(title, sep) {
			parts := strings.Split(title, sep)
			if company := strings.TrimSpace(parts[len(parts)-1]); company != "" {
				return company
			}
		}
	}

	domainName := hostname
	for _, prefix := range []string{"www.", "jobs.", "careers.", "boards.", "apply."} {
		domainName = strings.TrimPrefix(domainName, prefix)
	}
	if i := strings.LastIndex(domainName, "."); i > 0 {
		domainName = domainName[:i]
	}
	return domainName
}
