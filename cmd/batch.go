package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/solarmap/solarmap/internal/model"
	"github.com/solarmap/solarmap/internal/pipeline"
	"github.com/solarmap/solarmap/internal/report"
	"github.com/solarmap/solarmap/internal/store"
)

var (
	batchFile        string
	batchConcurrency int
	batchOutDir      string
	batchSave        bool
	batchOffline     bool
)

// batchSite is one entry of the batch input file. Omitted fields inherit
// the configured defaults.
type batchSite struct {
	Name       string  `yaml:"name"`
	Place      string  `yaml:"place,omitempty"`
	Lat        float64 `yaml:"lat,omitempty"`
	Lon        float64 `yaml:"lon,omitempty"`
	RoofWidth  float64 `yaml:"roof_width_m,omitempty"`
	RoofHeight float64 `yaml:"roof_height_m,omitempty"`
	Shading    float64 `yaml:"shading_factor,omitempty"`
	Tilt       float64 `yaml:"tilt_deg,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Assess multiple sites from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sites, err := loadBatchFile(batchFile)
		if err != nil {
			return err
		}

		var st store.Store
		if batchSave {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		var provider = initProvider()
		if batchOffline {
			provider = nil
		}
		assessor := pipeline.NewAssessor(provider)

		return processBatch(ctx, assessor, st, sites)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "YAML file with sites to assess (required)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max sites assessed in parallel")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "write one .txt report per site to this directory")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist each run to the configured store")
	batchCmd.Flags().BoolVar(&batchOffline, "offline", false, "skip the irradiance API and use the fallback profile")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

func loadBatchFile(path string) ([]batchSite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: read %s", path)
	}

	var doc struct {
		Sites []batchSite `yaml:"sites"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "batch: parse %s", path)
	}
	if len(doc.Sites) == 0 {
		return nil, eris.Errorf("batch: no sites in %s", path)
	}
	return doc.Sites, nil
}

// siteToRequest merges one batch entry over the configured defaults.
func siteToRequest(ctx context.Context, site batchSite) (model.AssessmentRequest, error) {
	req := defaultRequest()

	coordsSet := site.Lat != 0 || site.Lon != 0
	if err := resolveLocation(ctx, &req, site.Place, "", site.Lat, site.Lon, coordsSet); err != nil {
		return req, err
	}
	if site.Name != "" {
		req.PlaceName = site.Name
	}

	if site.RoofWidth > 0 {
		req.Roof.WidthM = site.RoofWidth
	}
	if site.RoofHeight > 0 {
		req.Roof.HeightM = site.RoofHeight
	}
	if site.Shading > 0 {
		req.Perf.ShadingFactor = site.Shading
	}
	req.Perf.TiltDeg = site.Tilt
	if site.Tilt == 0 {
		tilt := req.Location.Latitude
		if tilt < 0 {
			tilt = -tilt
		}
		if tilt > 60 {
			tilt = 60
		}
		req.Perf.TiltDeg = tilt
	}
	req.Offline = batchOffline

	return req, nil
}

// processBatch assesses sites concurrently. Individual failures are
// logged and counted without aborting the batch.
func processBatch(ctx context.Context, assessor *pipeline.Assessor, st store.Store, sites []batchSite) error {
	zap.L().Info("processing batch",
		zap.Int("sites", len(sites)),
		zap.Int("concurrency", batchConcurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	var succeeded, failed atomic.Int64

	for _, site := range sites {
		site := site
		g.Go(func() error {
			log := zap.L().With(zap.String("site", site.Name))

			req, err := siteToRequest(gctx, site)
			if err != nil {
				failed.Add(1)
				log.Error("site skipped", zap.Error(err))
				return nil
			}

			assessment, err := assessor.Run(gctx, req)
			if err != nil {
				failed.Add(1)
				log.Error("assessment failed", zap.Error(err))
				return nil
			}

			if st != nil {
				run, err := st.CreateRun(gctx, req)
				if err == nil {
					err = st.SaveAssessment(gctx, run.ID, assessment)
				}
				if err != nil {
					log.Warn("failed to persist run", zap.Error(err))
				}
			}

			if batchOutDir != "" {
				if err := writeSiteReport(batchOutDir, site.Name, assessment); err != nil {
					log.Warn("failed to write report", zap.Error(err))
				}
			}

			succeeded.Add(1)
			log.Info("assessment complete",
				zap.Int("panels", assessment.Layout.Panels),
				zap.Float64("score", assessment.Suitability.Score),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

func writeSiteReport(dir, name string, a *model.Assessment) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "batch: create %s", dir)
	}
	path := filepath.Join(dir, slugify(name)+".txt")
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "batch: create %s", path)
	}
	defer f.Close() //nolint:errcheck
	return report.WriteText(f, a)
}

func slugify(name string) string {
	if name == "" {
		return "site"
	}
	slug := strings.ToLower(name)
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	return strings.Trim(slug, "-")
}
