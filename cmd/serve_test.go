package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/killallgit/studio-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points config loading at an empty directory and the session
// root at a temp dir
func isolateConfig(t *testing.T) {
	t.Helper()
	config.Reset()
	config.ConfigPath = t.TempDir() + "/settings.yaml"
	t.Setenv("STUDIO_STORAGE_ROOT_PARENT", t.TempDir())
	t.Cleanup(config.Reset)
}

func TestServeHelp(t *testing.T) {
	isolateConfig(t)

	out, err := execute(t, "serve", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Start the WebAudio Studio API server")
	assert.Contains(t, out, "--port")
	assert.Contains(t, out, "--host")
}

func TestServeRunsUntilCancelled(t *testing.T) {
	isolateConfig(t)
	t.Cleanup(func() { serverHost, serverPort = "", 0 })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// cobra keeps the context from an earlier Execute on the subcommand
	NewRootCmd().SetContext(ctx)
	serveCmd.SetContext(ctx)
	t.Cleanup(func() {
		NewRootCmd().SetContext(context.Background())
		serveCmd.SetContext(context.Background())
	})
	done := make(chan error, 1)
	go func() {
		_, err := execute(t, "serve", "--host", "127.0.0.1", "--port", "18473")
		done <- err
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return after its context ended")
	}
}

func TestServeRejectsBadFlags(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "serve", "--port", "invalid")
	assert.Error(t, err)
}

func TestServeReportsConfigErrors(t *testing.T) {
	isolateConfig(t)
	t.Setenv("STUDIO_SERVER_PORT", "70000")
	t.Cleanup(func() { serverHost, serverPort = "", 0 })

	_, err := execute(t, "serve")
	assert.Error(t, err)
}
