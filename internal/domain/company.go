package domain

// Platform identifies the ATS hosting a company's job board.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformAshby      Platform = "ashby"
	PlatformWorkday    Platform = "workday"
	PlatformCustom     Platform = "custom"
)

// CompanyBoard is one roster entry: a company plus the token addressing its
// board on the detected platform. For workday the token is a composite
// "subdomain:wdVersion:boardPath". Immutable once stored.
type CompanyBoard struct {
	Name       string   `json:"name"`
	Platform   Platform `json:"ats"`
	BoardToken string   `json:"board_token"`
}
