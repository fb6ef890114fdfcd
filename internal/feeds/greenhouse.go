package feeds

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/recency"
)

type greenhouseFeed struct {
	Jobs []struct {
		Title       string `json:"title"`
		UpdatedAt   string `json:"updated_at"`
		AbsoluteURL string `json:"absolute_url"`
		Content     string `json:"content"`
		Location    struct {
			Name string `json:"name"`
		} `json:"location"`
	} `json:"jobs"`
}

func (p *Poller) fetchGreenhouse(ctx context.Context, co domain.CompanyBoard) ([]domain.JobPosting, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", p.greenhouseBase, co.BoardToken)

	var feed greenhouseFeed
	if err := p.getJSON(ctx, url, &feed); err != nil {
		return nil, fmt.Errorf("greenhouse feed: %w", err)
	}

	var jobs []domain.JobPosting
	for _, j := range feed.Jobs {
		if !TitleRelevant(j.Title) {
			continue
		}
		posted := domain.PostedText(j.UpdatedAt)
		if !recency.Recent(posted, p.maxAgeHours, time.Now()) {
			continue
		}
		if p.ledger.IsSeen(j.AbsoluteURL) {
			continue
		}
		jobs = append(jobs, domain.JobPosting{
			Title:       j.Title,
			Company:     co.Name,
			Location:    j.Location.Name,
			URL:         j.AbsoluteURL,
			Description: htmlToText(j.Content),
			DatePosted:  posted,
			IsRemote:    remoteFlag(j.Location.Name),
			Source:      "ats:greenhouse:" + co.Name,
			Query:       "ats_feed",
		})
	}
	log.Printf("[feeds] %s (greenhouse): found %d recent relevant jobs", co.Name, len(jobs))
	return jobs, nil
}
