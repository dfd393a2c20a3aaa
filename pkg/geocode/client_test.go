package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode_Match(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Raipur Collectorate, India", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `[{"lat":"21.2514","lon":"81.6296","display_name":"Collectorate, Raipur, Chhattisgarh, India"}]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithCountryBias("India"))
	result, err := c.Geocode(context.Background(), "Raipur Collectorate")
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.InDelta(t, 21.2514, result.Point.Latitude, 1e-9)
	assert.InDelta(t, 81.6296, result.Point.Longitude, 1e-9)
	assert.Contains(t, result.DisplayName, "Raipur")
}

func TestGeocode_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	result, err := c.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Geocode(context.Background(), "Delhi")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 429")
}

func TestGeocode_BadCoordinatePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"lat":"not-a-number","lon":"81.6","display_name":"x"}]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Geocode(context.Background(), "Delhi")
	assert.Error(t, err)
}
