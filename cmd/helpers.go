package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/solarmap/solarmap/internal/model"
	"github.com/solarmap/solarmap/internal/places"
	"github.com/solarmap/solarmap/internal/store"
	"github.com/solarmap/solarmap/pkg/geocode"
	"github.com/solarmap/solarmap/pkg/power"
)

// initProvider builds the POWER client with the configured rate limit and
// a memoizing cache in front of it.
func initProvider() power.Provider {
	client := power.NewClient(
		power.WithBaseURL(cfg.Power.BaseURL),
		power.WithRateLimit(cfg.Power.RatePerSec),
	)
	ttl := time.Duration(cfg.Power.CacheTTLHours) * time.Hour
	return power.NewCachingProvider(client, ttl)
}

// initGeocoder builds the Nominatim client from config.
func initGeocoder() geocode.Client {
	return geocode.NewClient(
		geocode.WithBaseURL(cfg.Geocode.BaseURL),
		geocode.WithUserAgent(cfg.Geocode.UserAgent),
		geocode.WithCountryBias(cfg.Geocode.CountryBias),
	)
}

// initGazetteer loads the builtin place table plus any configured extras.
func initGazetteer() (*places.Gazetteer, error) {
	g := places.NewGazetteer()
	for _, path := range cfg.Places.ExtraFiles {
		if err := g.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// initStore opens the configured run-history backend and migrates it.
func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store)
}

// defaultRequest seeds an assessment request from configured defaults.
func defaultRequest() model.AssessmentRequest {
	d := cfg.Defaults
	return model.AssessmentRequest{
		Roof: model.RoofGeometry{
			WidthM:     d.RoofWidthM,
			HeightM:    d.RoofHeightM,
			ClearanceM: d.ClearanceM,
		},
		Panel: model.PanelSpec{
			WidthM:      d.PanelWidthM,
			HeightM:     d.PanelHeightM,
			RatedW:      d.PanelWatt,
			Orientation: model.Orientation(d.Orientation),
		},
		Perf: model.PerformanceConfig{
			PerformanceRatio: d.PerformanceRatio,
			ShadingFactor:    d.ShadingFactor,
		},
		Financial: model.FinancialConfig{
			CostPerKW:    d.CostPerKW,
			TariffPerKWh: d.TariffPerKWh,
		},
	}
}

// resolveLocation fills Location and PlaceName from, in order of
// precedence: a gazetteer place name, a free-text address, or explicit
// coordinates.
func resolveLocation(ctx context.Context, req *model.AssessmentRequest, place, address string, lat, lon float64, coordsSet bool) error {
	switch {
	case place != "":
		g, err := initGazetteer()
		if err != nil {
			return err
		}
		p, ok := g.Lookup(place)
		if !ok {
			if matches := g.Search(place); len(matches) > 0 {
				p = matches[0]
			} else {
				return eris.Errorf("unknown place %q (try `solarmap places search`)", place)
			}
		}
		req.Location = p.Point()
		req.PlaceName = p.Name
	case address != "":
		res, err := initGeocoder().Geocode(ctx, address)
		if err != nil {
			return eris.Wrap(err, "geocode address")
		}
		if !res.Matched {
			return eris.Errorf("address not found: %q", address)
		}
		req.Location = res.Point
		req.PlaceName = res.DisplayName
	case coordsSet:
		req.Location = model.GeoPoint{Latitude: lat, Longitude: lon}
		if !req.Location.Valid() {
			return eris.Errorf("coordinates out of range (%.4f, %.4f)", lat, lon)
		}
	default:
		return eris.New("provide --place, --address, or --lat/--lon")
	}
	return nil
}
