package cleanup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobs struct {
	calls     int
	olderThan time.Duration
	err       error
}

func (f *fakeJobs) CleanupOldJobs(ctx context.Context, olderThan time.Duration) (int64, error) {
	f.calls++
	f.olderThan = olderThan
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

func mkdirAged(t *testing.T, path string, age time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0755))
	when := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, when, when))
}

func TestRunOnceReapsOnlyStaleSiblings(t *testing.T) {
	parent := t.TempDir()
	live := filepath.Join(parent, "audio-studio-live")
	stale := filepath.Join(parent, "audio-studio-old")
	fresh := filepath.Join(parent, "audio-studio-fresh")
	foreign := filepath.Join(parent, "other-old")

	mkdirAged(t, live, 48*time.Hour)
	require.NoError(t, os.WriteFile(filepath.Join(parent, "audio-studio-file"), []byte("x"), 0644))
	mkdirAged(t, filepath.Join(stale, "session"), 0)
	mkdirAged(t, stale, 48*time.Hour)
	mkdirAged(t, fresh, time.Hour)
	mkdirAged(t, foreign, 48*time.Hour)

	jobs := &fakeJobs{}
	svc := NewService(Config{
		LiveRoot:     live,
		Prefix:       "audio-studio-",
		StaleAge:     24 * time.Hour,
		JobRetention: 12 * time.Hour,
	}, jobs, nil)

	report := svc.RunOnce(context.Background())
	assert.Equal(t, 1, report.RootsRemoved)
	assert.Equal(t, int64(3), report.JobsDeleted)
	assert.Equal(t, 12*time.Hour, jobs.olderThan)

	assert.NoDirExists(t, stale)
	assert.DirExists(t, live)
	assert.DirExists(t, fresh)
	assert.DirExists(t, foreign)
	assert.FileExists(t, filepath.Join(parent, "audio-studio-file"))

	// The heartbeat refreshed the live root
	info, err := os.Stat(live)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), info.ModTime(), time.Minute)
}

func TestRunOnceToleratesJobCleanupFailure(t *testing.T) {
	live := filepath.Join(t.TempDir(), "audio-studio-live")
	require.NoError(t, os.Mkdir(live, 0755))

	jobs := &fakeJobs{err: errors.New("database is locked")}
	svc := NewService(Config{LiveRoot: live, Prefix: "audio-studio-", StaleAge: time.Hour, JobRetention: time.Hour}, jobs, nil)

	report := svc.RunOnce(context.Background())
	assert.Equal(t, 1, jobs.calls)
	assert.Zero(t, report.JobsDeleted)
}

func TestRunOnceWithoutRetentionKeepsJobs(t *testing.T) {
	jobs := &fakeJobs{}
	svc := NewService(Config{}, jobs, nil)

	svc.RunOnce(context.Background())
	assert.Zero(t, jobs.calls)
}

func TestStartStop(t *testing.T) {
	parent := t.TempDir()
	live := filepath.Join(parent, "audio-studio-live")
	stale := filepath.Join(parent, "audio-studio-old")
	require.NoError(t, os.Mkdir(live, 0755))
	mkdirAged(t, stale, 48*time.Hour)

	svc := NewService(Config{LiveRoot: live, Prefix: "audio-studio-", StaleAge: time.Hour, Interval: time.Hour}, nil, nil)
	svc.Start(context.Background())
	svc.Start(context.Background())

	// The first pass runs synchronously
	assert.NoDirExists(t, stale)

	svc.Stop()
	svc.Stop()
}
