// Package cleanup keeps the live session root fresh and reaps roots leaked by
// processes that exited without tearing down their store.
package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobCleaner deletes finished job records
type JobCleaner interface {
	CleanupOldJobs(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Config configures the cleanup service
type Config struct {
	// LiveRoot is the root of this process; it is touched, never removed
	LiveRoot string
	// Prefix selects sibling roots of other processes
	Prefix   string
	StaleAge time.Duration
	Interval time.Duration
	// JobRetention <= 0 keeps job records forever
	JobRetention time.Duration
}

// Report summarizes one cleanup pass
type Report struct {
	RootsRemoved int
	JobsDeleted  int64
}

// Service handles cleanup of leaked session roots and old job records
type Service struct {
	cfg  Config
	jobs JobCleaner
	log  *zap.Logger
	now  func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a new cleanup service. jobs may be nil.
func NewService(cfg Config, jobs JobCleaner, log *zap.Logger) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:  cfg,
		jobs: jobs,
		log:  log.Named("cleanup"),
		now:  time.Now,
	}
}

// Start runs a pass immediately and then on every interval until Stop
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.RunOnce(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunOnce(ctx)
			case <-ctx.Done():
				s.log.Info("cleanup service stopped")
				return
			}
		}
	}()

	s.log.Info("cleanup service started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("stale_root_age", s.cfg.StaleAge))
}

// Stop stops the cleanup service and waits for a running pass
func (s *Service) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
	}
}

// RunOnce touches the live root, removes stale sibling roots and deletes
// expired job records
func (s *Service) RunOnce(ctx context.Context) Report {
	var report Report

	s.heartbeat()
	report.RootsRemoved = s.reapStaleRoots()

	if s.jobs != nil && s.cfg.JobRetention > 0 {
		deleted, err := s.jobs.CleanupOldJobs(ctx, s.cfg.JobRetention)
		if err != nil {
			s.log.Warn("job cleanup failed", zap.Error(err))
		}
		report.JobsDeleted = deleted
	}

	return report
}

func (s *Service) heartbeat() {
	if s.cfg.LiveRoot == "" {
		return
	}
	now := s.now()
	if err := os.Chtimes(s.cfg.LiveRoot, now, now); err != nil {
		s.log.Warn("failed to touch session root", zap.String("root", s.cfg.LiveRoot), zap.Error(err))
	}
}

func (s *Service) reapStaleRoots() int {
	if s.cfg.LiveRoot == "" || s.cfg.Prefix == "" || s.cfg.StaleAge <= 0 {
		return 0
	}

	live := filepath.Clean(s.cfg.LiveRoot)
	parent := filepath.Dir(live)

	entries, err := os.ReadDir(parent)
	if err != nil {
		s.log.Warn("failed to list root parent", zap.String("parent", parent), zap.Error(err))
		return 0
	}

	removed := 0
	cutoff := s.now().Add(-s.cfg.StaleAge)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), s.cfg.Prefix) {
			continue
		}
		path := filepath.Join(parent, entry.Name())
		if path == live {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		s.log.Info("removing stale session root",
			zap.String("path", path),
			zap.Time("last_modified", info.ModTime()))
		if err := os.RemoveAll(path); err != nil {
			s.log.Warn("failed to remove stale session root", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed
}
