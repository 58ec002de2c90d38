// Package apitest wires handler dependencies against a real session store,
// an in-memory sqlite database and the fake processing backend.
package apitest

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/api/types"
	"github.com/killallgit/studio-api/internal/database"
	"github.com/killallgit/studio-api/internal/metrics"
	"github.com/killallgit/studio-api/internal/processing/processingtest"
	"github.com/killallgit/studio-api/internal/services/cache"
	"github.com/killallgit/studio-api/internal/services/jobs"
	"github.com/killallgit/studio-api/internal/services/operations"
	"github.com/killallgit/studio-api/internal/services/sessions"
	"github.com/killallgit/studio-api/internal/services/waveforms"
	"github.com/killallgit/studio-api/internal/services/workers"
	"github.com/killallgit/studio-api/internal/sessionstore"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Generator returns fixed peaks and counts calls
type Generator struct {
	Err error

	mu    sync.Mutex
	calls int
}

func (g *Generator) GenerateWaveform(ctx context.Context, input string, options ffmpeg.WaveformOptions) (*ffmpeg.WaveformData, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	peaks := make([]float32, options.Resolution)
	for i := range peaks {
		peaks[i] = float32(i%10) / 10
	}
	return &ffmpeg.WaveformData{
		Peaks:      peaks,
		Duration:   12.5,
		Resolution: options.Resolution,
		SampleRate: 44100,
	}, nil
}

// Calls returns how often peaks were generated
func (g *Generator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// Harness holds a fully wired set of handler dependencies
type Harness struct {
	Deps      *types.Dependencies
	Store     *sessionstore.Store
	DB        *database.DB
	Backend   *processingtest.Backend
	Generator *Generator
	Pool      *workers.WorkerPool
	Metrics   *metrics.Metrics
}

// New builds a harness; everything is torn down with the test
func New(t *testing.T) *Harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	store, err := sessionstore.New(sessionstore.Config{Parent: t.TempDir(), Prefix: "studio-test-", Logger: log})
	require.NoError(t, err)

	db, err := database.InitializeWithMigrations(":memory:", false)
	require.NoError(t, err)

	sessionService := sessions.NewService(sessions.NewRepository(db.DB), log)
	jobService := jobs.NewService(jobs.NewRepository(db.DB), log)
	backend := &processingtest.Backend{}
	m := metrics.New()

	pool := workers.NewWorkerPool(jobService, workers.Config{Workers: 2, QueueSize: 10, JobTimeout: 5 * time.Second}, log)
	pool.RegisterProcessor(workers.NewAudioProcessor(store, backend, sessionService, log))
	pool.SetObserver(m)
	require.NoError(t, pool.Start(context.Background()))

	generator := &Generator{}
	waveformService := waveforms.NewService(store, sessionService, generator,
		cache.NewMemoryCache(4, time.Minute), waveforms.Config{DefaultResolution: 100}, log)

	t.Cleanup(func() {
		pool.Stop()
		_ = db.Close()
		store.Teardown()
	})

	return &Harness{
		Deps: &types.Dependencies{
			DB:            db,
			Store:         store,
			Sessions:      sessionService,
			Jobs:          jobService,
			Operations:    operations.NewService(store, jobService, pool, log),
			Waveforms:     waveformService,
			Metrics:       m,
			MaxUploadSize: 1 << 20,
			Build:         types.BuildInfo{Version: "1.2.3", GitCommit: "abc123", BuildTime: "today"},
		},
		Store:     store,
		DB:        db,
		Backend:   backend,
		Generator: generator,
		Pool:      pool,
		Metrics:   m,
	}
}

// Router returns an engine with routes installed by register
func (h *Harness) Router(register func(gin.IRoutes, *types.Dependencies)) *gin.Engine {
	router := gin.New()
	register(router, h.Deps)
	return router
}

// Session creates a recorded session holding content as the original upload
func (h *Harness) Session(t *testing.T, filename string, content []byte) string {
	t.Helper()
	ctx := context.Background()

	session, err := h.Store.Create(ctx, bytes.NewReader(content), filename)
	require.NoError(t, err)
	_, err = h.Deps.Sessions.RegisterUpload(ctx, session, "audio/wav", nil)
	require.NoError(t, err)
	return session.ID
}

// MultipartRequest builds a POST with content in a file field
func MultipartRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("note", "ignored"))
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// FormRequest builds a url-encoded POST
func FormRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}
