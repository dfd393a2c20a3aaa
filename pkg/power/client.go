// Package power fetches monthly irradiance climatology from the NASA
// POWER API. Callers treat ErrUnavailable as the signal to fall back to a
// static latitude-band profile; no other error taxonomy is exposed.
package power

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/solarmap/solarmap/internal/model"
	"github.com/solarmap/solarmap/internal/resilience"
)

const (
	defaultBaseURL = "https://power.larc.nasa.gov/api/temporal/climatology/point"

	// ghiParameter is all-sky surface shortwave downward irradiance,
	// kWh/m²/day in the RE community.
	ghiParameter = "ALLSKY_SFC_SW_DWN"

	// fillValue marks missing data in POWER responses.
	fillValue = -999.0
)

// ErrUnavailable signals that no usable irradiance data exists for the
// requested point. Callers select a fallback profile instead of failing.
var ErrUnavailable = eris.New("power: irradiance data unavailable")

// Provider supplies monthly average daily irradiance for a coordinate.
type Provider interface {
	Monthly(ctx context.Context, lat, lon float64) (model.MonthlyIrradiance, error)
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit sets the request rate toward the POWER API.
func WithRateLimit(perSec float64) Option {
	return func(c *Client) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

// WithRetry overrides the retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// Client is an HTTP client for the POWER monthly climatology endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a POWER API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(2, 1),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// powerResponse mirrors the subset of the climatology payload we read.
type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// monthKeys is the POWER response key order, aligned to model.Months.
var monthKeys = [model.MonthCount]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// Monthly implements Provider. It returns ErrUnavailable when the API
// cannot be reached or the point has no usable climatology.
func (c *Client) Monthly(ctx context.Context, lat, lon float64) (model.MonthlyIrradiance, error) {
	irr, err := resilience.DoVal(ctx, c.retry, "power.monthly", func(ctx context.Context) (model.MonthlyIrradiance, error) {
		return c.fetch(ctx, lat, lon)
	})
	if err != nil {
		zap.L().Warn("power: climatology fetch failed",
			zap.Float64("lat", lat),
			zap.Float64("lon", lon),
			zap.Error(err),
		)
		return model.MonthlyIrradiance{}, ErrUnavailable
	}
	return irr, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (model.MonthlyIrradiance, error) {
	var zero model.MonthlyIrradiance

	if err := c.limiter.Wait(ctx); err != nil {
		return zero, eris.Wrap(err, "power: rate limiter wait")
	}

	q := url.Values{}
	q.Set("parameters", ghiParameter)
	q.Set("community", "RE")
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("format", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return zero, eris.Wrap(err, "power: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, eris.Wrap(err, "power: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, eris.Wrap(err, "power: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("power: unexpected status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return zero, resilience.NewTransientError(err, resp.StatusCode)
		}
		return zero, err
	}

	var parsed powerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return zero, eris.Wrap(err, "power: unmarshal response")
	}

	values, ok := parsed.Properties.Parameter[ghiParameter]
	if !ok {
		return zero, eris.Errorf("power: parameter %s missing from response", ghiParameter)
	}

	var irr model.MonthlyIrradiance
	for i, key := range monthKeys {
		v, ok := values[key]
		if !ok || v <= fillValue {
			return zero, eris.Errorf("power: month %s missing or filled", key)
		}
		if v < 0 {
			v = 0
		}
		irr[i] = v
	}
	return irr, nil
}
