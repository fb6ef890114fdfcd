package feeds

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// htmlToText flattens a job description to plain text. Boards ship
// descriptions as HTML (greenhouse even entity-escapes it); scoring and
// keyword matching want readable text.
func htmlToText(html string) string {
	if html == "" {
		return ""
	}
	if !strings.ContainsAny(html, "<&") {
		return cleanText(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cleanText(html)
	}
	var b strings.Builder
	doc.Find("p, li, h1, h2, h3, h4, br, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	b.WriteString(doc.Text())
	lines := strings.Split(b.String(), "\n")
	var out []string
	for _, line := range lines {
		if line = cleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

var moneyRe = regexp.MustCompile(`[\$]?\s*([\d,]+(?:\.\d+)?)`)

// parseCompensation extracts min/max salary from a free-form compensation
// summary like "$150,000 - $200,000 USD". First two figures win.
func parseCompensation(summary string) (*float64, *float64) {
	if summary == "" {
		return nil, nil
	}
	var nums []float64
	for _, m := range moneyRe.FindAllStringSubmatch(summary, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		nums = append(nums, v)
	}
	switch {
	case len(nums) >= 2:
		lo, hi := nums[0], nums[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return &lo, &hi
	case len(nums) == 1:
		return &nums[0], &nums[0]
	}
	return nil, nil
}

func remoteFlag(location string) *bool {
	v := location != "" && strings.Contains(strings.ToLower(location), "remote")
	return &v
}
