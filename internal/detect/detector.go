package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/netutil"
)

// Probe timeout per candidate request.
const probeTimeout = 8 * time.Second

type probeEndpoint struct {
	platform domain.Platform
	template string // fmt template taking the slug
}

// The three simple platforms with fixed REST templates, probed in order.
var defaultEndpoints = []probeEndpoint{
	{domain.PlatformGreenhouse, "https://boards-api.greenhouse.io/v1/boards/%s/jobs"},
	{domain.PlatformLever, "https://api.lever.co/v0/postings/%s"},
	{domain.PlatformAshby, "https://api.ashbyhq.com/posting-api/job-board/%s"},
}

// Detector probes public ATS APIs to figure out which platform a company
// uses. Every candidate failure is non-fatal; the search just moves on.
type Detector struct {
	hc        *http.Client
	limiter   *netutil.HostLimiter
	endpoints []probeEndpoint

	// workdayHost builds the CXS host for a slug+version pair; overridable
	// in tests.
	workdayHost func(slug, wd string) string
}

func New(limiter *netutil.HostLimiter) *Detector {
	return &Detector{
		hc:        &http.Client{Timeout: probeTimeout},
		limiter:   limiter,
		endpoints: defaultEndpoints,
		workdayHost: func(slug, wd string) string {
			return fmt.Sprintf("https://%s.%s.myworkdayjobs.com", slug, wd)
		},
	}
}

// Detect returns the confirmed (platform, token) pair for a company, or
// ok=false when the search space is exhausted. The first verified candidate
// wins.
func (d *Detector) Detect(ctx context.Context, companyName string) (domain.CompanyBoard, bool) {
	slugs := CompanySlugs(companyName)
	log.Printf("[detect] probing ATS for %q with slugs %v", companyName, slugs)

	for _, slug := range slugs {
		for _, ep := range d.endpoints {
			board, ok := d.probeSimple(ctx, companyName, slug, ep)
			if ok {
				log.Printf("[detect] %s for %q (slug=%s)", board.Platform, companyName, slug)
				return board, true
			}
		}
	}

	if board, ok := d.detectWorkday(ctx, companyName, slugs); ok {
		return board, true
	}

	log.Printf("[detect] no ATS detected for %q", companyName)
	return domain.CompanyBoard{}, false
}

func (d *Detector) probeSimple(ctx context.Context, companyName, slug string, ep probeEndpoint) (domain.CompanyBoard, bool) {
	probeURL := fmt.Sprintf(ep.template, slug)

	body, ok := d.get(ctx, probeURL)
	if !ok {
		return domain.CompanyBoard{}, false
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return domain.CompanyBoard{}, false
	}
	if !hasPostings(data) {
		return domain.CompanyBoard{}, false
	}

	if !verifyBoard(companyName, slug, data, ep.platform) {
		return domain.CompanyBoard{}, false
	}

	return domain.CompanyBoard{
		Name:       companyName,
		Platform:   ep.platform,
		BoardToken: slug,
	}, true
}

func (d *Detector) get(ctx context.Context, probeURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("Accept", "application/json")

	if d.limiter != nil {
		if err := d.limiter.WaitURL(ctx, probeURL); err != nil {
			return nil, false
		}
	}

	res, err := d.hc.Do(req)
	if err != nil {
		return nil, false
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return nil, false
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, false
	}
	return body, true
}

// hasPostings checks that the body exposes a recognizable postings array:
// either a bare list (lever) or an object with a jobs/postings key.
func hasPostings(data any) bool {
	switch v := data.(type) {
	case []any:
		return true
	case map[string]any:
		_, hasJobs := v["jobs"]
		_, hasPost := v["postings"]
		return hasJobs || hasPost
	}
	return false
}

// boardOrgName extracts the organization name a platform exposes in its
// response, when it exposes one at all. Only ashby does; greenhouse and lever
// job feeds carry no board name, so verification there falls back to slug
// heuristics.
func boardOrgName(data any, platform domain.Platform) string {
	if platform != domain.PlatformAshby {
		return ""
	}
	obj, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	jobs, ok := obj["jobs"].([]any)
	if !ok || len(jobs) == 0 {
		return ""
	}
	first, ok := jobs[0].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := first["organizationName"].(string)
	return name
}

// verifyBoard decides whether a 200 response for slug actually belongs to the
// target company. Generic slugs ("community", "labs") happily resolve to some
// unrelated company's board, so a candidate is never accepted on status code
// alone.
func verifyBoard(companyName, slug string, data any, platform domain.Platform) bool {
	// Slug equal to the whole space-stripped name: high confidence.
	if slug == fullSlug(strings.ToLower(companyName)) {
		return true
	}

	normCompany := NormalizeCompany(companyName)

	if orgName := boardOrgName(data, platform); orgName != "" {
		normBoard := NormalizeCompany(orgName)
		if similarNames(normCompany, normBoard) {
			return true
		}
		log.Printf("[detect] board name mismatch for %q: board says %q (slug=%s)",
			companyName, orgName, slug)
		return false
	}

	// No org name exposed: only trust slugs carrying most of the name.
	full := fullSlug(normCompany)
	if fuzzy.Ratio(full, slug) >= 80 {
		return true
	}
	if len(slug) >= 5 && strings.Contains(full, slug) {
		return true
	}

	log.Printf("[detect] low confidence slug match for %q: slug=%q vs full=%q",
		companyName, slug, full)
	return false
}

// similarNames applies the fuzzy acceptance thresholds. The partial-substring
// score is only consulted when the two names are in the same length ballpark;
// a four-letter name is trivially a perfect substring of any board name that
// happens to start with it, which is exactly the false positive verification
// exists to stop.
func similarNames(a, b string) bool {
	if fuzzy.Ratio(a, b) >= 70 {
		return true
	}
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if longer == 0 || shorter*2 < longer {
		return false
	}
	return fuzzy.PartialRatio(a, b) >= 85
}
