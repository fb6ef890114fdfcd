package state

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// Tracking parameters stripped during canonicalization. Matched
// case-insensitively against the exact parameter name.
var trackingParams = map[string]bool{
	"fbclid":           true,
	"gclid":            true,
	"gclsrc":           true,
	"dclid":            true,
	"gbraid":           true,
	"wbraid":           true,
	"msclkid":          true,
	"twclid":           true,
	"li_fat_id":        true,
	"igshid":           true,
	"mc_cid":           true,
	"mc_eid":           true,
	"s_kwcid":          true,
	"ef_id":            true,
	"_openstat":        true,
	"yclid":            true,
	"ref":              true,
	"referrer":         true,
	"source":           true,
	"gad_source":       true,
	"si":               true,
	"tracking_id":      true,
	"rcid":             true,
	"refid":            true,
	"trk":              true,
	"clicktrackingkey": true,
}

var linkedinJobViewRe = regexp.MustCompile(`/jobs/view/(\d+)`)

// CanonicalURL maps a raw posting URL to the identity string the ledger keys
// on. Never dereferenced; equality comparison only.
//
// LinkedIn job URLs collapse to a fixed template keyed by job id, so share
// links, recommendation-feed links and tracking redirects of the same posting
// all land on one identity. Everything else gets lowercased scheme/host,
// tracking parameters stripped, the fragment dropped, trailing slashes
// trimmed, and a deterministic query re-serialization.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if strings.Contains(strings.ToLower(u.Host), "linkedin.com") {
		if m := linkedinJobViewRe.FindStringSubmatch(u.Path); m != nil {
			return fmt.Sprintf("https://www.linkedin.com/jobs/view/%s", m[1])
		}
		if id := u.Query().Get("currentJobId"); id != "" {
			return fmt.Sprintf("https://www.linkedin.com/jobs/view/%s", id)
		}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = strings.TrimRight(u.Path, "/")

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || trackingParams[lk] {
			q.Del(k)
		}
	}
	for k, vals := range q {
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode() // Encode sorts keys, so output is deterministic

	return u.String()
}
