package places

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/weather-outlook/internal/metrics"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultUserAgent    = "HavaDurumuApp/1.0"

	nominatimLimit = 10
)

var settlementTypes = map[string]struct{}{
	"city":           {},
	"town":           {},
	"village":        {},
	"municipality":   {},
	"administrative": {},
	"suburb":         {},
	"district":       {},
	"county":         {},
}

// Nominatim queries the OpenStreetMap search API.
type Nominatim struct {
	client  *resty.Client
	metrics metrics.Recorder
}

// NewNominatim creates a Nominatim client. The public instance rejects
// requests without a User-Agent, so DefaultUserAgent is used when none is set.
func NewNominatim(cfg ClientConfig) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Nominatim{
		client:  newRestClient(cfg),
		metrics: recorderOf(cfg),
	}
}

func (n *Nominatim) Name() string { return "nominatim" }

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	State        string `json:"state"`
	Region       string `json:"region"`
	Province     string `json:"province"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
}

type nominatimPlace struct {
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	Class       string           `json:"class"`
	Type        string           `json:"type"`
	Importance  float64          `json:"importance"`
	Address     nominatimAddress `json:"address"`
}

// Search returns settlements matching query, most important first.
func (n *Nominatim) Search(ctx context.Context, query string) ([]Candidate, error) {
	var places []nominatimPlace
	err := getJSON(ctx, n.client, n.metrics, n.Name(), "/search", map[string]string{
		"q":              query,
		"format":         "json",
		"limit":          strconv.Itoa(nominatimLimit),
		"addressdetails": "1",
	}, &places)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, min(len(places), nominatimLimit))
	for _, p := range places {
		if c, ok := p.candidate(); ok {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out, nil
}

func (p nominatimPlace) candidate() (Candidate, bool) {
	name := p.name()
	if name == "" || p.Address.Country == "" {
		return Candidate{}, false
	}
	if _, ok := settlementTypes[p.Type]; !ok && p.Class != "place" && p.Class != "boundary" {
		return Candidate{}, false
	}

	state := firstNonEmpty(p.Address.State, p.Address.Region, p.Address.Province, p.Address.County)
	return newCandidate(name, p.Address.Country, strings.ToUpper(p.Address.CountryCode), state, p.Importance), true
}

func (p nominatimPlace) name() string {
	a := p.Address
	if name := firstNonEmpty(p.Name, a.City, a.Town, a.Village, a.Municipality, a.County); name != "" {
		return name
	}
	head, _, _ := strings.Cut(p.DisplayName, ",")
	return strings.TrimSpace(head)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
