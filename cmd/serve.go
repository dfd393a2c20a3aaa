package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarmap/solarmap/internal/model"
	"github.com/solarmap/solarmap/internal/pipeline"
	"github.com/solarmap/solarmap/internal/solar"
	"github.com/solarmap/solarmap/internal/store"
	"github.com/solarmap/solarmap/pkg/power"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assessment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		provider := initProvider()
		api := &apiServer{
			assessor: pipeline.NewAssessor(provider),
			provider: provider,
			store:    st,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go shutdownOnDone(ctx, srv)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 10 * time.Second

// shutdownOnDone drains the server once ctx is canceled. The signal
// context is already canceled at that point, so Shutdown gets a fresh
// deadline of its own.
func shutdownOnDone(ctx context.Context, srv *http.Server) {
	<-ctx.Done()
	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// apiServer holds the handler dependencies.
type apiServer struct {
	assessor *pipeline.Assessor
	provider power.Provider
	store    store.Store
}

func (s *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/assessments", s.handleCreateAssessment)
		r.Get("/assessments", s.handleListAssessments)
		r.Get("/assessments/{id}", s.handleGetAssessment)
		r.Get("/irradiance", s.handleIrradiance)
	})
	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	// Decoding over a pre-seeded request leaves omitted fields at their
	// configured defaults.
	req := defaultRequest()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Perf.TiltDeg == 0 {
		tilt := req.Location.Latitude
		if tilt < 0 {
			tilt = -tilt
		}
		if tilt > 60 {
			tilt = 60
		}
		req.Perf.TiltDeg = tilt
	}

	run, err := s.store.CreateRun(r.Context(), req)
	if err != nil {
		zap.L().Error("create run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create run")
		return
	}

	assessment, err := s.assessor.Run(r.Context(), req)
	if err != nil {
		if sErr := s.store.UpdateRunStatus(r.Context(), run.ID, model.RunStatusFailed); sErr != nil {
			zap.L().Warn("failed to mark run failed", zap.Error(sErr))
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.SaveAssessment(r.Context(), run.ID, assessment); err != nil {
		zap.L().Error("save assessment failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save assessment")
		return
	}

	run.Status = model.RunStatusComplete
	run.Assessment = assessment
	writeJSON(w, http.StatusCreated, run)
}

func (s *apiServer) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		zap.L().Error("get run failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *apiServer) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{
		Status: model.RunStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *apiServer) handleIrradiance(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	point := model.GeoPoint{Latitude: lat, Longitude: lon}
	if !point.Valid() {
		writeError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}

	irr, err := s.provider.Monthly(r.Context(), lat, lon)
	source := model.SourcePower
	if err != nil {
		if !errors.Is(err, power.ErrUnavailable) {
			zap.L().Warn("irradiance fetch failed, using fallback", zap.Error(err))
		}
		irr, source = solar.FallbackProfile(lat)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"location": point,
		"monthly":  irr,
		"mean":     irr.Mean(),
		"source":   source,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
