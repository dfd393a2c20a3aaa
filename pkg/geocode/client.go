// Package geocode resolves free-text addresses to coordinates via the
// Nominatim search API. An unmatched address is a normal result, not an
// error; the pipeline only ever consumes resolved GeoPoints.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/solarmap/solarmap/internal/model"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Result is the outcome of a geocode lookup.
type Result struct {
	Matched     bool
	Point       model.GeoPoint
	DisplayName string
}

// Client resolves free-text addresses.
type Client interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default Nominatim base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithCountryBias appends a country name to unqualified queries.
func WithCountryBias(country string) Option {
	return func(c *httpClient) {
		c.countryBias = country
	}
}

// WithUserAgent sets the User-Agent header required by the Nominatim
// usage policy.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL     string
	countryBias string
	userAgent   string
	http        *http.Client
	limiter     *rate.Limiter
}

// NewClient creates a Nominatim client. Requests are limited to 1/s per
// the public instance usage policy.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: "solarmap/1.0",
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(1, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// searchResult mirrors one entry of the Nominatim search response.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-text address. A query with no match returns
// Matched=false and a nil error.
func (c *httpClient) Geocode(ctx context.Context, query string) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: rate limiter wait")
	}

	q := query
	if c.countryBias != "" {
		q = query + ", " + c.countryBias
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "geocode: unmarshal response")
	}

	if len(results) == 0 {
		zap.L().Debug("geocode: no match", zap.String("query", query))
		return &Result{Matched: false}, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: parse latitude")
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: parse longitude")
	}

	return &Result{
		Matched:     true,
		Point:       model.GeoPoint{Latitude: lat, Longitude: lon},
		DisplayName: results[0].DisplayName,
	}, nil
}
