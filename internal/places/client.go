package places

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/i474232898/weather-outlook/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// ClientConfig holds what every geocoding client needs.
type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Metrics   metrics.Recorder
}

func newRestClient(cfg ClientConfig) *resty.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}
	return c
}

func recorderOf(cfg ClientConfig) metrics.Recorder {
	if cfg.Metrics == nil {
		return metrics.Noop()
	}
	return cfg.Metrics
}

// getJSON performs a GET and decodes a 2xx body into out.
func getJSON(
	ctx context.Context,
	client *resty.Client,
	rec metrics.Recorder,
	provider, path string,
	params map[string]string,
	out interface{},
) error {
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		rec.IncUpstreamRequests(provider, 0)
		return fmt.Errorf("%s request: %w", provider, err)
	}

	rec.ObserveUpstreamDuration(provider, resp.Time())
	rec.IncUpstreamRequests(provider, resp.StatusCode())

	if !resp.IsSuccess() {
		return fmt.Errorf("%s: unexpected status code %d", provider, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}
