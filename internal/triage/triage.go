// Package triage is the cheap, deterministic pre-filter that runs before any
// posting is sent out for semantic scoring. Keyword arithmetic only, no
// network calls.
package triage

import (
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"jobscout-engine/internal/detect"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/recency"
)

// High-signal title keywords, worth 2 points each.
var titleKeywords = []string{
	"ai enablement",
	"ai adoption",
	"ai training",
	"ai transformation",
	"ai change management",
	"ai coaching",
	"ai academy",
	"ai literacy",
	"learning design",
	"learning experience",
	"learning architect",
	"learning product",
	"instructional design",
	"curriculum",
	"l&d",
	"learning and development",
	"learning",
	"education",
	"training",
	"enablement",
	"training manager",
	"training director",
	"product manager",
	"product design",
	"change management",
	"workforce transformation",
	"center of excellence",
	"customer education",
}

// Description keywords, 1 point each, contribution capped at 4.
var descriptionKeywords = []string{
	"ai enablement",
	"ai adoption",
	"ai tools",
	"ai training",
	"ai literacy",
	"ai transformation",
	"generative ai",
	"large language model",
	"llm",
	"prompt engineering",
	"change management",
	"learning design",
	"learning experience",
	"instructional design",
	"curriculum development",
	"workshop",
	"enablement",
	"upskill",
	"reskill",
	"training program",
	"learning management",
	"product management",
	"edtech",
	"education technology",
	"adult learning",
	"hands-on",
	"coaching",
}

// Titles matching any of these score 0 no matter what the description says.
var rejectPatterns = compilePatterns([]string{
	`\bsoftware engineer`,
	`\bsre\b`,
	`\bdevops\b`,
	`\bdata scientist\b`,
	`\bml engineer`,
	`\bmachine learning engineer`,
	`\bbackend engineer`,
	`\bfrontend engineer`,
	`\bfull.?stack engineer`,
	`\bplatform engineer`,
	`\binfrastructure engineer`,
	`\bsecurity engineer`,
	`\bqa engineer`,
	`\bnurse\b`,
	`\bphysician\b`,
	`\bpharmacist\b`,
	`\bdentist\b`,
	`\baccountant\b`,
	`\bauditor\b`,
	`\blawyer\b`,
	`\blegal counsel`,
	`\bparalegal\b`,
	`\btax\b.*\b(manager|analyst|director)`,
	`\bsales rep`,
	`\baccount executive\b`,
	`\b[bs]dr\b`,
	`\brecruiter\b`,
	`\breal estate\b`,
	`\bmechanic\b`,
	`\belectrician\b`,
	`\bplumber\b`,
	`\bwarehouse\b`,
	`\bdriver\b`,
	`\bcashier\b`,
	`\bcustomer service rep`,
})

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

// Location policy: remote-work phrases plus the Denver metro / Front Range.
var allowedLocations = []string{
	"remote",
	"anywhere",
	"distributed",
	"work from home",
	"wfh",
	"denver",
	"boulder",
	"colorado springs",
	"fort collins",
	"loveland",
	"longmont",
	"broomfield",
	"aurora",
	"lakewood",
	"arvada",
	"westminster",
	"thornton",
	"centennial",
	"littleton",
	"castle rock",
	"golden",
	"parker",
	"highlands ranch",
	"colorado",
	" co ",
	" co,",
	", co",
}

// Case-sensitive so "CO" doesn't match inside ordinary words or "Co.".
var coAbbrevRe = regexp.MustCompile(`\bCO\b`)

var (
	aiTitleRe    = regexp.MustCompile(`\bai\b`)
	seniorityRe  = regexp.MustCompile(`\b(manager|director|head of|lead|vp)\b`)
	degreePhrase = regexp.MustCompile(`(?i)\b(?:bs|ms|phd|b\.s\.|m\.s\.|ph\.d\.|bachelor(?:'s|s)?|master(?:'s|s)?|doctoral|doctorate|degree)(?:\s+degree)?\s+in\s+(?:a\s+)?(?:computer science|software engineering|computer engineering|electrical engineering|mechanical engineering|engineering|mathematics|math\b|statistics|physics|data science|machine learning)`)
)

// Reason classifies which stage excluded a posting.
type Reason string

const (
	ReasonNone     Reason = "none"
	ReasonKeyword  Reason = "keyword"
	ReasonLocation Reason = "location"
	ReasonDegree   Reason = "degree"
	ReasonAge      Reason = "age"
)

// Result is a posting annotated with its triage outcome.
type Result struct {
	domain.JobPosting
	Score  int
	Reason Reason
}

type Options struct {
	MinScore    int
	MaxAgeHours int // 0 disables the age stage
	// Companies whose postings bypass the location policy, matched by
	// normalized name.
	ExemptCompanies []string
}

// Score rates a posting 0-10 on keyword relevance. 0 means hard-rejected.
func Score(job domain.JobPosting) int {
	title := strings.ToLower(job.Title)
	description := strings.ToLower(job.Description)

	for _, re := range rejectPatterns {
		if re.MatchString(title) {
			return 0
		}
	}

	score := 0
	for _, kw := range titleKeywords {
		if strings.Contains(title, kw) {
			score += 2
		}
	}

	descHits := 0
	for _, kw := range descriptionKeywords {
		if strings.Contains(description, kw) {
			descHits++
		}
	}
	if descHits > 4 {
		descHits = 4
	}
	score += descHits

	if aiTitleRe.MatchString(title) {
		score++
	}
	if seniorityRe.MatchString(title) {
		score++
	}

	if score > 10 {
		score = 10
	}
	return score
}

// PassesLocation applies the location policy. Empty locations pass.
func PassesLocation(job domain.JobPosting) bool {
	location := strings.TrimSpace(job.Location)
	if location == "" {
		return true
	}
	lower := strings.ToLower(location)
	for _, term := range allowedLocations {
		if strings.Contains(lower, term) {
			return true
		}
	}
	if coAbbrevRe.MatchString(location) {
		return true
	}
	return job.IsRemote != nil && *job.IsRemote
}

// requiresTechnicalDegree matches degree-level phrases immediately followed
// by a technical field. The adjacency requirement keeps postings that merely
// mention a field in passing from being rejected.
func requiresTechnicalDegree(description string) bool {
	return degreePhrase.MatchString(description)
}

// tooOld runs the age stage. Postings with no parseable date get the benefit
// of the doubt unless they came from the external search source, whose
// results routinely surface stale pages.
func tooOld(job domain.JobPosting, maxAgeHours int, now time.Time) bool {
	if maxAgeHours <= 0 {
		return false
	}
	recent, known := recency.Decide(job.DatePosted, maxAgeHours, now)
	if !known {
		return strings.HasPrefix(job.Source, "searchapi")
	}
	return !recent
}

// Run scores and filters a batch. Survivors come back sorted by score
// descending so the caller can spend its scoring budget on the most
// promising postings first; everything excluded comes back in rejected with
// the stage that cut it.
func Run(jobs []domain.JobPosting, opts Options) (passed, rejected []Result) {
	exempt := make(map[string]struct{}, len(opts.ExemptCompanies))
	for _, name := range opts.ExemptCompanies {
		exempt[detect.NormalizeCompany(name)] = struct{}{}
	}

	now := time.Now()
	var keywordCut, locationCut, degreeCut, ageCut int

	for _, job := range jobs {
		score := Score(job)
		if score < opts.MinScore {
			rejected = append(rejected, Result{JobPosting: job, Score: score, Reason: ReasonKeyword})
			keywordCut++
			continue
		}

		if _, ok := exempt[detect.NormalizeCompany(job.Company)]; !ok {
			if !PassesLocation(job) {
				rejected = append(rejected, Result{JobPosting: job, Score: 0, Reason: ReasonLocation})
				locationCut++
				continue
			}
		}

		if requiresTechnicalDegree(job.Description) {
			rejected = append(rejected, Result{JobPosting: job, Score: 0, Reason: ReasonDegree})
			degreeCut++
			continue
		}

		if tooOld(job, opts.MaxAgeHours, now) {
			rejected = append(rejected, Result{JobPosting: job, Score: 0, Reason: ReasonAge})
			ageCut++
			continue
		}

		passed = append(passed, Result{JobPosting: job, Score: score, Reason: ReasonNone})
	}

	sort.SliceStable(passed, func(i, j int) bool { return passed[i].Score > passed[j].Score })

	log.Printf("[triage] %d passed (min_score=%d), %d keyword-rejected, %d location-rejected, %d degree-rejected, %d age-rejected out of %d total",
		len(passed), opts.MinScore, keywordCut, locationCut, degreeCut, ageCut, len(jobs))

	return passed, rejected
}
