package feeds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/recency"
)

const (
	workdayPageSize = 20
	workdayMaxJobs  = 100
)

type workdayPage struct {
	Total       int `json:"total"`
	JobPostings []struct {
		Title         string `json:"title"`
		ExternalPath  string `json:"externalPath"`
		PostedOn      string `json:"postedOn"`
		LocationsText string `json:"locationsText"`
	} `json:"jobPostings"`
}

type workdayDetail struct {
	JobPostingInfo struct {
		JobDescription string `json:"jobDescription"`
		Location       string `json:"location"`
	} `json:"jobPostingInfo"`
}

// fetchWorkday pages through a Workday CXS board. The board token packs
// "subdomain:version:board"; pagination runs on offset/limit POSTs and stops
// at the reported total or the per-company cap, whichever comes first.
func (p *Poller) fetchWorkday(ctx context.Context, co domain.CompanyBoard) ([]domain.JobPosting, error) {
	parts := strings.SplitN(co.BoardToken, ":", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("workday: invalid board token %q (expected subdomain:wd:board)", co.BoardToken)
	}
	subdomain, wd, board := parts[0], parts[1], parts[2]

	host := fmt.Sprintf(p.workdayHostFmt, subdomain, wd)
	feedURL := fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", host, subdomain, board)

	var jobs []domain.JobPosting
	for offset := 0; offset < workdayMaxJobs; offset += workdayPageSize {
		page, err := p.postWorkdayPage(ctx, feedURL, offset)
		if err != nil {
			log.Printf("[feeds] %s (workday): page at offset %d: %v", co.Name, offset, err)
			break
		}
		if len(page.JobPostings) == 0 {
			break
		}

		for _, j := range page.JobPostings {
			if !TitleRelevant(j.Title) || j.ExternalPath == "" {
				continue
			}
			jobURL := host + j.ExternalPath
			if p.ledger.IsSeen(jobURL) {
				continue
			}
			// postedOn is human text ("Posted 2 Days Ago").
			if !recency.Recent(domain.PostedText(j.PostedOn), p.maxAgeHours, time.Now()) {
				continue
			}

			location := j.LocationsText
			description := ""
			detailURL := fmt.Sprintf("%s/wday/cxs/%s/%s%s", host, subdomain, board, j.ExternalPath)
			var detail workdayDetail
			if err := p.getJSON(ctx, detailURL, &detail); err == nil {
				description = htmlToText(detail.JobPostingInfo.JobDescription)
				if location == "" {
					location = detail.JobPostingInfo.Location
				}
			}

			jobs = append(jobs, domain.JobPosting{
				Title:       j.Title,
				Company:     co.Name,
				Location:    location,
				URL:         jobURL,
				Description: description,
				IsRemote:    remoteFlag(location),
				Source:      "ats:workday:" + co.Name,
				Query:       "ats_feed",
			})
		}

		if offset+workdayPageSize >= page.Total {
			break
		}
	}

	log.Printf("[feeds] %s (workday): found %d relevant jobs", co.Name, len(jobs))
	return jobs, nil
}

func (p *Poller) postWorkdayPage(ctx context.Context, feedURL string, offset int) (*workdayPage, error) {
	payload, _ := json.Marshal(map[string]any{
		"limit":         workdayPageSize,
		"offset":        offset,
		"appliedFacets": map[string]any{},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, feedURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if p.limiter != nil {
		if err := p.limiter.WaitURL(ctx, feedURL); err != nil {
			return nil, err
		}
	}

	res, err := p.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("status %d", res.StatusCode)
	}

	var page workdayPage
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}
