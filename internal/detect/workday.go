package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"jobscout-engine/internal/domain"
)

// Workday board tokens have to be guessed. Most tenants use one of a small
// set of conventional board names, tried here in observed-popularity order.
func workdayBoardCandidates(slug string) []string {
	return []string{
		slug,
		slug + "ExternalCareerSite",
		slug + "-careers",
		slug + "careers",
		"External",
		"Careers",
		"external_experienced",
		slug + "_Careers",
	}
}

var workdayVersions = []string{"wd5", "wd1"}

// detectWorkday brute-forces Workday CXS endpoints over slug x version x
// board combinations. A hit is a 200 whose body carries a jobPostings or
// total key. The returned token packs all three coordinates as
// "slug:version:board" so the feed poller can rebuild the endpoint.
func (d *Detector) detectWorkday(ctx context.Context, companyName string, slugs []string) (domain.CompanyBoard, bool) {
	for _, slug := range slugs {
		if len(slug) > 40 {
			continue
		}
		for _, wd := range workdayVersions {
			host := d.workdayHost(slug, wd)
			for _, board := range workdayBoardCandidates(slug) {
				if d.probeWorkday(ctx, host, slug, board) {
					token := fmt.Sprintf("%s:%s:%s", slug, wd, board)
					log.Printf("[detect] workday for %q token=%s", companyName, token)
					return domain.CompanyBoard{
						Name:       companyName,
						Platform:   domain.PlatformWorkday,
						BoardToken: token,
					}, true
				}
			}
		}
	}
	return domain.CompanyBoard{}, false
}

func (d *Detector) probeWorkday(ctx context.Context, host, slug, board string) bool {
	probeURL := fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", host, slug, board)

	payload := []byte(`{"limit":1,"offset":0,"appliedFacets":{}}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, probeURL, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if d.limiter != nil {
		if err := d.limiter.WaitURL(ctx, probeURL); err != nil {
			return false
		}
	}

	res, err := d.hc.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return false
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return false
	}
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return false
	}
	_, hasPostings := obj["jobPostings"]
	_, hasTotal := obj["total"]
	return hasPostings || hasTotal
}
