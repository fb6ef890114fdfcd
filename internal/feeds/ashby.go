package feeds

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/recency"
)

type ashbyFeed struct {
	Jobs []struct {
		Title                  string `json:"title"`
		PublishedAt            string `json:"publishedAt"`
		JobURL                 string `json:"jobUrl"`
		Location               string `json:"location"`
		DescriptionHTML        string `json:"descriptionHtml"`
		DescriptionPlain       string `json:"descriptionPlain"`
		CompensationTierSummary string `json:"compensationTierSummary"`
	} `json:"jobs"`
}

func (p *Poller) fetchAshby(ctx context.Context, co domain.CompanyBoard) ([]domain.JobPosting, error) {
	url := fmt.Sprintf("%s/%s?includeCompensation=true", p.ashbyBase, co.BoardToken)

	var feed ashbyFeed
	if err := p.getJSON(ctx, url, &feed); err != nil {
		return nil, fmt.Errorf("ashby feed: %w", err)
	}

	var jobs []domain.JobPosting
	for _, j := range feed.Jobs {
		if !TitleRelevant(j.Title) {
			continue
		}
		posted := domain.PostedText(j.PublishedAt)
		if !recency.Recent(posted, p.maxAgeHours, time.Now()) {
			continue
		}
		if p.ledger.IsSeen(j.JobURL) {
			continue
		}
		desc := j.DescriptionHTML
		if desc == "" {
			desc = j.DescriptionPlain
		}
		salaryMin, salaryMax := parseCompensation(j.CompensationTierSummary)
		jobs = append(jobs, domain.JobPosting{
			Title:       j.Title,
			Company:     co.Name,
			Location:    j.Location,
			URL:         j.JobURL,
			Description: htmlToText(desc),
			DatePosted:  posted,
			IsRemote:    remoteFlag(j.Location),
			SalaryMin:   salaryMin,
			SalaryMax:   salaryMax,
			Source:      "ats:ashby:" + co.Name,
			Query:       "ats_feed",
		})
	}
	log.Printf("[feeds] %s (ashby): found %d potentially relevant jobs", co.Name, len(jobs))
	return jobs, nil
}
