package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/studio-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	config.Reset()
	config.ConfigPath = t.TempDir() + "/settings.yaml"
	t.Cleanup(config.Reset)

	require.NoError(t, config.Init())
	cfg, err := config.GetConfig()
	require.NoError(t, err)

	cfg.Storage.RootParent = t.TempDir()
	cfg.Processing.FFmpegPath = "/nonexistent/ffmpeg"
	cfg.Processing.FFprobePath = "/nonexistent/ffprobe"
	return cfg
}

func TestBuildApplicationServesAndTearsDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)

	app, err := buildApplication(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	root := app.store.Root()
	_, err = os.Stat(root)
	require.NoError(t, err)

	for _, path := range []string{"/", "/health", "/version", cfg.Monitoring.MetricsPath} {
		w := httptest.NewRecorder()
		app.server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	require.NoError(t, app.shutdown(context.Background()))

	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err), "session root should be removed on shutdown")
}

func TestBuildApplicationWithoutMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.Monitoring.MetricsEnabled = false

	app, err := buildApplication(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.shutdown(context.Background())

	w := httptest.NewRecorder()
	app.server.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuildApplicationFailsOnBadStoreParent(t *testing.T) {
	cfg := testConfig(t)
	// A regular file cannot hold the session root
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	cfg.Storage.RootParent = filepath.Join(blocker, "roots")

	app, err := buildApplication(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, app)
}
