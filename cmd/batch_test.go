package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBatchFile(t *testing.T) {
	path := writeBatchFile(t, `
sites:
  - name: Warehouse A
    place: Raipur Collectorate
    roof_width_m: 24
    roof_height_m: 15
  - name: Office B
    lat: 28.61
    lon: 77.21
    shading_factor: 0.3
`)

	sites, err := loadBatchFile(path)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "Warehouse A", sites[0].Name)
	assert.InDelta(t, 24.0, sites[0].RoofWidth, 1e-9)
	assert.InDelta(t, 28.61, sites[1].Lat, 1e-9)
	assert.InDelta(t, 0.3, sites[1].Shading, 1e-9)
}

func TestLoadBatchFile_Empty(t *testing.T) {
	path := writeBatchFile(t, "sites: []\n")
	_, err := loadBatchFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sites")
}

func TestLoadBatchFile_Missing(t *testing.T) {
	_, err := loadBatchFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSiteToRequest_MergesOverDefaults(t *testing.T) {
	testConfig(t)

	req, err := siteToRequest(context.Background(), batchSite{
		Name:      "Warehouse A",
		Lat:       21.2514,
		Lon:       81.6296,
		RoofWidth: 24,
		Shading:   0.3,
	})
	require.NoError(t, err)

	assert.Equal(t, "Warehouse A", req.PlaceName)
	assert.InDelta(t, 24.0, req.Roof.WidthM, 1e-9)
	// Height keeps the configured default.
	assert.InDelta(t, 8.0, req.Roof.HeightM, 1e-9)
	assert.InDelta(t, 0.3, req.Perf.ShadingFactor, 1e-9)
	// Tilt defaults to |latitude|.
	assert.InDelta(t, 21.2514, req.Perf.TiltDeg, 1e-9)
}

func TestSiteToRequest_PlaceLookup(t *testing.T) {
	testConfig(t)

	req, err := siteToRequest(context.Background(), batchSite{Place: "Raipur Collectorate"})
	require.NoError(t, err)
	assert.InDelta(t, 21.2514, req.Location.Latitude, 1e-3)
}
