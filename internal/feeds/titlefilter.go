package feeds

import "strings"

// Titles containing any of these are dropped before anything else happens.
var excludeTerms = []string{
	"software engineer",
	"backend engineer",
	"frontend engineer",
	"devops",
	"sre",
	"site reliability",
	"data scientist",
	"ml engineer",
	"machine learning engineer",
	"accountant",
	"financial analyst",
	"fp&a",
	"lawyer",
	"legal counsel",
	"counsel",
	"sales representative",
	"sales specialist",
	"sales director",
	"account executive",
	"account manager",
	"bdr",
	"sdr",
	"nurse",
	"physician",
	"pharmacist",
	"security engineer",
	"infrastructure engineer",
	"database administrator",
	"qa engineer",
	"test engineer",
	"presales",
	"pre-sales",
	"solutions engineer",
	"solution engineer",
	"solutions architect",
	"solution architect",
	"technical account manager",
	"support engineer",
	"support expert",
	"support specialist",
	"game design",
	"game director",
	"level designer",
	"noc ",
	"network operations",
	"firmware",
	"hardware",
	"mechanical engineer",
	"electrical engineer",
	"tax ",
	"audit",
	"compliance",
	"regulatory",
	"recruiter",
	"talent acquisition",
	"channel ",
	"partner manager",
	"partnership",
	"marketing manager",
	"marketing specialist",
	"growth marketing",
	"lifecycle marketing",
	"demand gen",
	"creative director",
	"graphic design",
	"visual design",
	"art director",
	"animator",
	"warehouse",
	"driver",
	"cashier",
	"real estate",
	"plumber",
	"electrician",
	"mechanic",
}

// A title has to hit one of these to survive. Learning/training design first,
// then AI context, then enablement and adjacent functions.
var includeTerms = []string{
	"learn",
	"train",
	"education",
	"instructional",
	"curriculum",
	"content architect",
	"content design",
	"academy",
	"l&d",
	"workshop",
	"ai ",
	" ai",
	"artificial intelligence",
	"enablement",
	"adoption",
	"literacy",
	"upskill",
	"reskill",
	"workforce",
	"center of excellence",
	"transformation",
	"change management",
	"product manager",
	"product design",
	"program manager",
	"coach",
}

// TitleRelevant is the board-side pre-filter: a title must avoid every
// exclude term and hit at least one include term. Titles matching neither
// list are rejected so generic roles never reach scoring.
func TitleRelevant(title string) bool {
	lower := strings.ToLower(title)
	for _, term := range excludeTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	for _, term := range includeTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
