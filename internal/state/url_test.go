package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips utm parameters",
			in:   "https://x.com/job?id=1&utm_source=newsletter&utm_campaign=feb",
			want: "https://x.com/job?id=1",
		},
		{
			name: "strips ad-click identifiers",
			in:   "https://x.com/job?id=1&gclid=abc123&fbclid=def",
			want: "https://x.com/job?id=1",
		},
		{
			name: "tracking params are case-insensitive",
			in:   "https://x.com/job?id=1&UTM_Source=x&GCLID=y",
			want: "https://x.com/job?id=1",
		},
		{
			name: "lowercases scheme and host only",
			in:   "HTTPS://Boards.Greenhouse.IO/acme/jobs/123",
			want: "https://boards.greenhouse.io/acme/jobs/123",
		},
		{
			name: "drops fragment and trailing slash",
			in:   "https://x.com/careers/role/#apply",
			want: "https://x.com/careers/role",
		},
		{
			name: "sorts query keys",
			in:   "https://x.com/job?b=2&a=1",
			want: "https://x.com/job?a=1&b=2",
		},
		{
			name: "linkedin view path collapses",
			in:   "https://www.linkedin.com/jobs/view/3872541098/?refId=xyz&trackingId=abc",
			want: "https://www.linkedin.com/jobs/view/3872541098",
		},
		{
			name: "linkedin recommendation feed collapses to same id",
			in:   "https://linkedin.com/jobs/collections/recommended/?currentJobId=3872541098",
			want: "https://www.linkedin.com/jobs/view/3872541098",
		},
		{
			name: "empty input",
			in:   "   ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalURL(tt.in))
		})
	}
}

func TestCanonicalURLIdempotent(t *testing.T) {
	urls := []string{
		"https://x.com/job?id=1&utm_source=x",
		"https://Boards.Greenhouse.IO/acme/jobs/123/",
		"https://www.linkedin.com/jobs/view/123?refId=a",
		"https://jobs.lever.co/acme/uuid-here?lever-origin=applicant",
		"not a url at all",
	}
	for _, u := range urls {
		once := CanonicalURL(u)
		assert.Equal(t, once, CanonicalURL(once), "canon must be idempotent for %q", u)
	}
}

func TestCanonicalURLVariantsCollide(t *testing.T) {
	a := CanonicalURL("https://x.com/job?id=1&utm_source=x")
	b := CanonicalURL("https://x.com/job?id=1")
	c := CanonicalURL("https://x.com/job/?id=1")
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}
