package places

import (
	"context"
	"fmt"
)

// MaxCandidates bounds every suggestion list.
const MaxCandidates = 5

// Candidate is one place a free-text query may refer to.
type Candidate struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	State       string  `json:"state,omitempty"`
	DisplayName string  `json:"displayName"`
	FullName    string  `json:"fullName"`
	SearchQuery string  `json:"searchQuery"`
	Importance  float64 `json:"importance"`
}

// Geocoder turns a free-text query into candidates, best first.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) ([]Candidate, error)
}

func newCandidate(name, country, countryCode, state string, importance float64) Candidate {
	c := Candidate{
		Name:        name,
		Country:     country,
		CountryCode: countryCode,
		State:       state,
		DisplayName: name,
		FullName:    fmt.Sprintf("%s, %s", name, country),
		SearchQuery: name,
		Importance:  importance,
	}
	if state != "" {
		c.DisplayName = fmt.Sprintf("%s, %s", name, state)
		c.FullName = fmt.Sprintf("%s, %s, %s", name, state, country)
	}
	// The weather endpoint resolves "name, CC" more reliably than a bare name.
	if countryCode != "" {
		c.SearchQuery = fmt.Sprintf("%s, %s", name, countryCode)
	}
	return c
}
