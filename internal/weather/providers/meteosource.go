package providers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/meteosource-go/internal/cache"
	"github.com/i474232898/meteosource-go/internal/weather"
)

// DefaultHost is the public Meteosource API.
const DefaultHost = "https://www.meteosource.com/api"

// API endpoints.
const (
	EndpointPoint       = "point"
	EndpointTimeMachine = "time_machine"
)

// Config holds the client settings. Language, Units, Sections and Timezone
// are the defaults applied by PointForecast.
type Config struct {
	APIKey   string
	Tier     string
	Host     string
	Language string
	Units    string
	Sections []string
	Timezone string

	// RateLimit is the maximum requests per second; <= 0 disables limiting.
	RateLimit float64
	Burst     int

	// CacheTTL is how long raw payloads are cached; <= 0 disables caching.
	CacheTTL time.Duration

	Backoff BackoffConfig
}

// Client fetches point forecasts and historical data from Meteosource and
// maps them onto weather.Forecast / weather.TimeMachine.
type Client struct {
	name    string
	cfg     Config
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	cache   cache.Cache
	clock   weather.Clock
}

// NewClient creates a Client. payloads may be nil to disable caching; clock
// may be nil to use the system clock.
func NewClient(client *http.Client, cfg Config, payloads cache.Cache, clock weather.Clock) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "meteosource",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Tier == "" {
		cfg.Tier = TierFree
	}
	if cfg.Backoff.InitialInterval <= 0 {
		cfg.Backoff = BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	if clock == nil {
		clock = weather.SystemClock
	}

	return &Client{
		name: "meteosource",
		cfg:  cfg,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: cfg.Backoff,
			Limiter: rate.NewLimiter(limit, burst),
		},
		circuit: cb,
		cache:   payloads,
		clock:   clock,
	}
}

func (c *Client) Name() string {
	return c.name
}

// BuildURL returns the request URL of an endpoint without parameters.
func (c *Client) BuildURL(endpoint string) string {
	return fmt.Sprintf("%s/v1/%s/%s", strings.TrimRight(c.cfg.Host, "/"), c.cfg.Tier, endpoint)
}

// PointForecast fetches the forecast for place using the configured defaults.
func (c *Client) PointForecast(ctx context.Context, place weather.Place) (*weather.Forecast, error) {
	q := QueryFromPlace(place)
	q.Language = c.cfg.Language
	q.Units = c.cfg.Units
	q.Sections = c.cfg.Sections
	q.Timezone = c.cfg.Timezone
	return c.GetPointForecast(ctx, q)
}

// GetPointForecast fetches and maps a point forecast.
func (c *Client) GetPointForecast(ctx context.Context, q PointQuery) (*weather.Forecast, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	payload, err := c.execute(ctx, EndpointPoint, q.params())
	if err != nil {
		return nil, err
	}
	return weather.ParseForecast(payload, q.Timezone, weather.WithClock(c.clock))
}

// GetTimeMachine fetches every requested day and maps them into one
// TimeMachine, in request order.
func (c *Client) GetTimeMachine(ctx context.Context, q TimeMachineQuery) (*weather.TimeMachine, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	dates, err := q.ResolveDates()
	if err != nil {
		return nil, err
	}

	payloads := make([][]byte, 0, len(dates))
	for _, date := range dates {
		payload, err := c.execute(ctx, EndpointTimeMachine, q.params(date))
		if err != nil {
			return nil, fmt.Errorf("time machine %s: %w", date, err)
		}
		payloads = append(payloads, payload)
	}
	return weather.ParseTimeMachine(q.Timezone, payloads, weather.WithClock(c.clock))
}

// execute performs a GET against endpoint and returns the raw body, served
// from the payload cache when possible.
func (c *Client) execute(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("meteosource api key is not configured")
	}

	u := c.BuildURL(endpoint) + "?" + params.Encode()
	key := c.cfg.Tier + ":" + endpoint + "?" + params.Encode()

	if c.cache != nil {
		data, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Printf("meteosource: cache get failed for %s: %v", key, err)
		} else if ok {
			return data, nil
		}
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-API-Key", c.cfg.APIKey)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
			log.Printf("meteosource: cache set failed for %s: %v", key, err)
		}
	}
	return data, nil
}

// Ensure Client implements the weather.Fetcher interface
var _ weather.Fetcher = (*Client)(nil)
