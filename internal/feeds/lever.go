package feeds

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/recency"
)

type leverPosting struct {
	Text             string `json:"text"`
	CreatedAt        int64  `json:"createdAt"` // epoch milliseconds
	HostedURL        string `json:"hostedUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
	Description      string `json:"description"`
	Categories       struct {
		Location string `json:"location"`
	} `json:"categories"`
}

func (p *Poller) fetchLever(ctx context.Context, co domain.CompanyBoard) ([]domain.JobPosting, error) {
	url := fmt.Sprintf("%s/%s", p.leverBase, co.BoardToken)

	var postings []leverPosting
	if err := p.getJSON(ctx, url, &postings); err != nil {
		return nil, fmt.Errorf("lever feed: %w", err)
	}

	var jobs []domain.JobPosting
	for _, j := range postings {
		if !TitleRelevant(j.Text) {
			continue
		}
		posted := domain.PostedEpoch(j.CreatedAt)
		if !recency.Recent(posted, p.maxAgeHours, time.Now()) {
			continue
		}
		if p.ledger.IsSeen(j.HostedURL) {
			continue
		}
		desc := j.DescriptionPlain
		if desc == "" {
			desc = htmlToText(j.Description)
		}
		jobs = append(jobs, domain.JobPosting{
			Title:       j.Text,
			Company:     co.Name,
			Location:    j.Categories.Location,
			URL:         j.HostedURL,
			Description: desc,
			DatePosted:  posted,
			IsRemote:    remoteFlag(j.Categories.Location),
			Source:      "ats:lever:" + co.Name,
			Query:       "ats_feed",
		})
	}
	log.Printf("[feeds] %s (lever): found %d recent relevant jobs", co.Name, len(jobs))
	return jobs, nil
}
