package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarmap/solarmap/internal/model"
	"github.com/solarmap/solarmap/internal/pipeline"
	"github.com/solarmap/solarmap/internal/store"
)

type fixedProvider struct {
	irr model.MonthlyIrradiance
	err error
}

func (p *fixedProvider) Monthly(ctx context.Context, lat, lon float64) (model.MonthlyIrradiance, error) {
	return p.irr, p.err
}

func newTestAPI(t *testing.T) *apiServer {
	t.Helper()
	testConfig(t)

	st, err := store.Open(context.Background(), cfg.Store)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	var irr model.MonthlyIrradiance
	for i := range irr {
		irr[i] = 5.5
	}
	provider := &fixedProvider{irr: irr}

	return &apiServer{
		assessor: pipeline.NewAssessor(provider),
		provider: provider,
		store:    st,
	}
}

func TestServe_Health(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServe_CreateAndGetAssessment(t *testing.T) {
	api := newTestAPI(t)
	router := api.router()

	body := `{"location":{"latitude":21.2514,"longitude":81.6296},"performance":{"performance_ratio":0.75,"shading_factor":0.1,"tilt_deg":21}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/assessments", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var run model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Assessment)
	assert.Equal(t, 18, run.Assessment.Layout.Panels)
	assert.InDelta(t, 7.2, run.Assessment.SystemKW, 1e-9)

	// Round-trip through GET.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/assessments/"+run.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched model.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, run.ID, fetched.ID)
	require.NotNil(t, fetched.Assessment)
	assert.Equal(t, 18, fetched.Assessment.Layout.Panels)
}

func TestServe_CreateAssessment_InvalidBody(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/assessments", bytes.NewBufferString("{not json"))
	api.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServe_CreateAssessment_InvalidInput(t *testing.T) {
	api := newTestAPI(t)

	// Shading beyond the validated range fails the pipeline, not decoding.
	body := `{"location":{"latitude":21.2514,"longitude":81.6296},"performance":{"performance_ratio":0.75,"shading_factor":0.95,"tilt_deg":21}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/assessments", bytes.NewBufferString(body))
	api.router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServe_GetAssessment_NotFound(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/assessments/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_ListAssessments(t *testing.T) {
	api := newTestAPI(t)
	router := api.router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/assessments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"runs":[]`)

	body := `{"location":{"latitude":21.2514,"longitude":81.6296},"performance":{"performance_ratio":0.75,"shading_factor":0.1,"tilt_deg":21}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/assessments", bytes.NewBufferString(body))
	router.ServeHTTP(httptest.NewRecorder(), req)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/assessments?status=complete", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Runs []model.Run `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Runs, 1)
}

func TestServe_Irradiance(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/irradiance?lat=21.25&lon=81.63", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Mean   float64 `json:"mean"`
		Source string  `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 5.5, resp.Mean, 1e-9)
	assert.Equal(t, "nasa_power", resp.Source)
}

func TestShutdownOnDone_DrainsInFlightRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusOK)
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	ctx, cancel := context.WithCancel(context.Background())
	go shutdownOnDone(ctx, srv)

	statusCh := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			statusCh <- 0
			return
		}
		defer resp.Body.Close() //nolint:errcheck
		statusCh <- resp.StatusCode
	}()

	// Trigger shutdown while the request hangs in the handler, then let
	// it finish. A drained shutdown still delivers the response.
	<-started
	cancel()
	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, http.StatusOK, <-statusCh)
	assert.ErrorIs(t, <-serveErr, http.ErrServerClosed)
}

func TestServe_Irradiance_BadParams(t *testing.T) {
	api := newTestAPI(t)
	router := api.router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/irradiance", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/irradiance?lat=95&lon=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
