package detect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobscout-engine/internal/domain"
)

func ashbyBody(orgName string) any {
	var data any
	b, _ := json.Marshal(map[string]any{
		"jobs": []map[string]any{{"title": "Some Role", "organizationName": orgName}},
	})
	json.Unmarshal(b, &data)
	return data
}

func TestVerifyBoard(t *testing.T) {
	tests := []struct {
		name     string
		company  string
		slug     string
		data     any
		platform domain.Platform
		want     bool
	}{
		{
			name:     "org name close match accepted",
			company:  "Acme Corp",
			slug:     "acme",
			data:     ashbyBody("Acme Corporation"),
			platform: domain.PlatformAshby,
			want:     true,
		},
		{
			name:     "org name mismatch rejected",
			company:  "Acme Corp",
			slug:     "acme",
			data:     ashbyBody("Acme Plumbing Supply Co"),
			platform: domain.PlatformAshby,
			want:     false,
		},
		{
			name:     "exact whole-name slug accepted without org name",
			company:  "Khan Academy",
			slug:     "khanacademy",
			data:     map[string]any{"jobs": []any{}},
			platform: domain.PlatformGreenhouse,
			want:     true,
		},
		{
			name:     "short generic slug rejected without org name",
			company:  "Community Brands International",
			slug:     "comm",
			data:     map[string]any{"jobs": []any{}},
			platform: domain.PlatformGreenhouse,
			want:     false,
		},
		{
			name:     "long substring slug accepted",
			company:  "Khan Academy Inc",
			slug:     "khanacademy",
			data:     []any{},
			platform: domain.PlatformLever,
			want:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verifyBoard(tt.company, tt.slug, tt.data, tt.platform))
		})
	}
}

func TestSimilarNames(t *testing.T) {
	assert.True(t, similarNames("acme", "acme"))
	assert.True(t, similarNames("acme corp", "acme corporation"))
	// A short name must not ride a perfect-substring partial score.
	assert.False(t, similarNames("acme", "acme plumbing supply"))
}

func TestDetectSimplePlatform(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ashby/acme" {
			json.NewEncoder(w).Encode(map[string]any{
				"jobs": []map[string]any{{"organizationName": "Acme Corporation"}},
			})
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := New(nil)
	d.endpoints = []probeEndpoint{{domain.PlatformAshby, srv.URL + "/ashby/%s"}}
	d.workdayHost = func(slug, wd string) string { return srv.URL }

	board, ok := d.Detect(context.Background(), "Acme Corp")
	require.True(t, ok)
	assert.Equal(t, domain.PlatformAshby, board.Platform)
	assert.Equal(t, "acme", board.BoardToken)
	assert.Equal(t, "Acme Corp", board.Name)
}

func TestDetectWorkdayFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/wday/cxs/acme/acmeExternalCareerSite/jobs" {
			json.NewEncoder(w).Encode(map[string]any{"total": 5, "jobPostings": []any{}})
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := New(nil)
	d.endpoints = nil // force the workday path
	wdSeen := ""
	d.workdayHost = func(slug, wd string) string {
		wdSeen = wd
		return srv.URL
	}

	board, ok := d.Detect(context.Background(), "Acme Corp")
	require.True(t, ok)
	assert.Equal(t, domain.PlatformWorkday, board.Platform)
	assert.Equal(t, "acme:"+wdSeen+":acmeExternalCareerSite", board.BoardToken)
}

func TestDetectNothingFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	d := New(nil)
	d.endpoints = []probeEndpoint{{domain.PlatformGreenhouse, srv.URL + "/gh/%s"}}
	d.workdayHost = func(slug, wd string) string { return srv.URL }

	_, ok := d.Detect(context.Background(), "No Such Company")
	require.False(t, ok)
}
