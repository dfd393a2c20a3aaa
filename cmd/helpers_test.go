package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarmap/solarmap/internal/model"
)

func TestDefaultRequest(t *testing.T) {
	testConfig(t)

	req := defaultRequest()
	assert.InDelta(t, 10.0, req.Roof.WidthM, 1e-9)
	assert.InDelta(t, 0.4, req.Roof.ClearanceM, 1e-9)
	assert.Equal(t, model.Portrait, req.Panel.Orientation)
	assert.InDelta(t, 0.75, req.Perf.PerformanceRatio, 1e-9)
	assert.InDelta(t, 55000.0, req.Financial.CostPerKW, 1e-9)
}

func TestResolveLocation_Place(t *testing.T) {
	testConfig(t)

	req := defaultRequest()
	err := resolveLocation(context.Background(), &req, "Raipur Collectorate", "", 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, "Raipur Collectorate", req.PlaceName)
	assert.InDelta(t, 21.2514, req.Location.Latitude, 1e-3)
}

func TestResolveLocation_PlaceSubstring(t *testing.T) {
	testConfig(t)

	req := defaultRequest()
	err := resolveLocation(context.Background(), &req, "collectorate", "", 0, 0, false)
	require.NoError(t, err)
	assert.Contains(t, req.PlaceName, "Collectorate")
}

func TestResolveLocation_UnknownPlace(t *testing.T) {
	testConfig(t)

	req := defaultRequest()
	err := resolveLocation(context.Background(), &req, "Atlantis", "", 0, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown place")
}

func TestResolveLocation_Coordinates(t *testing.T) {
	testConfig(t)

	req := defaultRequest()
	err := resolveLocation(context.Background(), &req, "", "", 28.61, 77.21, true)
	require.NoError(t, err)
	assert.InDelta(t, 28.61, req.Location.Latitude, 1e-9)
	assert.Empty(t, req.PlaceName)
}

func TestResolveLocation_CoordinatesOutOfRange(t *testing.T) {
	testConfig(t)

	req := defaultRequest()
	err := resolveLocation(context.Background(), &req, "", "", 95, 0, true)
	require.Error(t, err)
}

func TestResolveLocation_NothingProvided(t *testing.T) {
	testConfig(t)

	req := defaultRequest()
	err := resolveLocation(context.Background(), &req, "", "", 0, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provide --place")
}

func TestWriteReport_UnsupportedExtension(t *testing.T) {
	err := writeReport("report.pdf", &model.Assessment{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "raipur-collectorate", slugify("Raipur Collectorate"))
	assert.Equal(t, "site", slugify(""))
	assert.Equal(t, "a-b", slugify("  A/B  "))
}
