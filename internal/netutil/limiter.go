// Package netutil holds the shared outbound-request throttle.
package netutil

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter throttles requests per hostname so probing and feed polling
// stay polite toward each ATS (boards-api.greenhouse.io, api.lever.co, the
// per-tenant myworkdayjobs hosts). Hosts are bucketed case-insensitively.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(reqPerSec),
		burst:    burst,
	}
}

// WaitURL blocks until the host of raw may be contacted again. Unparseable
// URLs share a single fallback bucket rather than bypassing the limit.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	}

	hl.mu.Lock()
	lim, ok := hl.limiters[host]
	if !ok {
		lim = rate.NewLimiter(hl.limit, hl.burst)
		hl.limiters[host] = lim
	}
	hl.mu.Unlock()

	return lim.Wait(ctx)
}
