package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// PostedDate carries a posting date in whichever representation the source
// exposed: a numeric epoch (seconds or milliseconds, disambiguated by
// magnitude downstream), or a string (ISO-8601 or a relative phrase like
// "Posted 3 Days Ago"). A nil *PostedDate means the source had no date.
type PostedDate struct {
	Epoch int64
	Text  string
}

func PostedEpoch(v int64) *PostedDate {
	if v == 0 {
		return nil
	}
	return &PostedDate{Epoch: v}
}

func PostedText(s string) *PostedDate {
	if s == "" {
		return nil
	}
	return &PostedDate{Text: s}
}

func (d *PostedDate) String() string {
	if d == nil {
		return ""
	}
	if d.Epoch != 0 {
		t := time.Unix(d.Epoch, 0)
		if d.Epoch > 1_000_000_000_000 {
			t = time.UnixMilli(d.Epoch)
		}
		return t.UTC().Format("2006-01-02")
	}
	return d.Text
}

// MarshalJSON renders the date the way the source gave it: epoch as a
// number, everything else as a string.
func (d *PostedDate) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	if d.Epoch != 0 {
		return []byte(strconv.FormatInt(d.Epoch, 10)), nil
	}
	return json.Marshal(d.Text)
}

// JobPosting is the normalized record every discovery source emits.
// Ephemeral per run; only a metadata projection is persisted via the ledger.
type JobPosting struct {
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	URL         string      `json:"url"`
	Description string      `json:"description"`
	DatePosted  *PostedDate `json:"date_posted"`
	IsRemote    *bool       `json:"is_remote"` // tri-state: nil means the source didn't say
	SalaryMin   *float64    `json:"salary_min"`
	SalaryMax   *float64    `json:"salary_max"`
	Source      string      `json:"source"` // e.g. "ats:lever:Acme Corp", "searchapi"
	Query       string      `json:"query"`  // originating search term, or "ats_feed"
}
