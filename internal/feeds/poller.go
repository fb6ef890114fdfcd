package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/netutil"
)

const fetchWorkers = 4

// Ledger is the read side of the dedup store. Pollers consult it so already
// handled postings never re-enter the pipeline.
type Ledger interface {
	IsSeen(rawURL string) bool
}

// Poller fetches recent postings from the public board APIs of every company
// on the roster.
type Poller struct {
	hc          *http.Client
	limiter     *netutil.HostLimiter
	ledger      Ledger
	maxAgeHours int

	// Endpoint bases, swapped for httptest servers in tests.
	greenhouseBase string
	leverBase      string
	ashbyBase      string
	workdayHostFmt string
}

func NewPoller(ledger Ledger, limiter *netutil.HostLimiter, maxAgeHours int) *Poller {
	return &Poller{
		hc:             &http.Client{Timeout: 30 * time.Second},
		limiter:        limiter,
		ledger:         ledger,
		maxAgeHours:    maxAgeHours,
		greenhouseBase: "https://boards-api.greenhouse.io/v1/boards",
		leverBase:      "https://api.lever.co/v0/postings",
		ashbyBase:      "https://api.ashbyhq.com/posting-api/job-board",
		workdayHostFmt: "https://%s.%s.myworkdayjobs.com",
	}
}

// FetchAll polls every configured board and returns the surviving postings
// in one flat slice. A board that errors is logged and skipped; one broken
// company never sinks the run.
func (p *Poller) FetchAll(ctx context.Context, companies []domain.CompanyBoard) []domain.JobPosting {
	workCh := make(chan domain.CompanyBoard)

	var mu sync.Mutex
	var all []domain.JobPosting

	var wg sync.WaitGroup
	for i := 0; i < fetchWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for co := range workCh {
				jobs, err := p.fetchCompany(ctx, co)
				if err != nil {
					log.Printf("[feeds] %s (%s): %v", co.Name, co.Platform, err)
					continue
				}
				mu.Lock()
				all = append(all, jobs...)
				mu.Unlock()
			}
		}()
	}

	for _, co := range companies {
		if co.Platform == domain.PlatformCustom || co.BoardToken == "" {
			continue
		}
		select {
		case workCh <- co:
		case <-ctx.Done():
		}
	}
	close(workCh)
	wg.Wait()

	return all
}

func (p *Poller) fetchCompany(ctx context.Context, co domain.CompanyBoard) ([]domain.JobPosting, error) {
	switch co.Platform {
	case domain.PlatformGreenhouse:
		return p.fetchGreenhouse(ctx, co)
	case domain.PlatformLever:
		return p.fetchLever(ctx, co)
	case domain.PlatformAshby:
		return p.fetchAshby(ctx, co)
	case domain.PlatformWorkday:
		return p.fetchWorkday(ctx, co)
	}
	log.Printf("[feeds] %s: unsupported ATS type %q, skipping", co.Name, co.Platform)
	return nil, nil
}

func (p *Poller) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	if p.limiter != nil {
		if err := p.limiter.WaitURL(ctx, url); err != nil {
			return err
		}
	}

	res, err := p.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return fmt.Errorf("status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
