package cmd

import (
	"context"
	"fmt"

	"github.com/killallgit/studio-api/api"
	"github.com/killallgit/studio-api/api/types"
	"github.com/killallgit/studio-api/internal/database"
	"github.com/killallgit/studio-api/internal/metrics"
	"github.com/killallgit/studio-api/internal/processing"
	"github.com/killallgit/studio-api/internal/services/cache"
	"github.com/killallgit/studio-api/internal/services/cleanup"
	"github.com/killallgit/studio-api/internal/services/jobs"
	"github.com/killallgit/studio-api/internal/services/operations"
	"github.com/killallgit/studio-api/internal/services/sessions"
	"github.com/killallgit/studio-api/internal/services/waveforms"
	"github.com/killallgit/studio-api/internal/services/workers"
	"github.com/killallgit/studio-api/internal/sessionstore"
	"github.com/killallgit/studio-api/pkg/config"
	"github.com/killallgit/studio-api/pkg/ffmpeg"
	"go.uber.org/zap"
)

// application owns every long-lived component of a running server
type application struct {
	log     *zap.Logger
	store   *sessionstore.Store
	db      *database.DB
	pool    *workers.WorkerPool
	cleanup *cleanup.Service
	server  *api.Server
}

// buildApplication wires the server from configuration. On error everything
// built so far is torn down.
func buildApplication(ctx context.Context, cfg *config.Config, log *zap.Logger) (app *application, err error) {
	app = &application{log: log}
	defer func() {
		if err != nil {
			app.shutdown(context.Background())
			app = nil
		}
	}()

	app.store, err = sessionstore.New(sessionstore.Config{
		Parent: cfg.Storage.RootParent,
		Prefix: cfg.Storage.RootPrefix,
		Logger: log,
	})
	if err != nil {
		return app, fmt.Errorf("creating session store: %w", err)
	}
	log.Info("session store ready",
		zap.String("root", app.store.Root()),
		zap.String("note", "root will leak if the process is killed; stale roots are reaped on the next start"))

	app.db, err = database.InitializeWithMigrations(cfg.Database.Path, cfg.Database.Verbose)
	if err != nil {
		return app, fmt.Errorf("initializing database: %w", err)
	}

	sessionService := sessions.NewService(sessions.NewRepository(app.db.DB), log)
	jobService := jobs.NewService(jobs.NewRepository(app.db.DB), log)

	ff := ffmpeg.New(cfg.Processing.FFmpegPath, cfg.Processing.FFprobePath, cfg.Processing.FFmpegTimeout)
	if verr := ff.ValidateBinaries(); verr != nil {
		log.Warn("ffmpeg is not usable; processing requests will fail", zap.Error(verr))
	}

	enc := ffmpeg.DefaultEncodeOptions()
	if cfg.Processing.OutputBitrate != "" {
		enc.Bitrate = cfg.Processing.OutputBitrate
	}
	backend := processing.NewFFmpegBackend(ff, enc, cfg.Processing.SplitConcurrency)

	var m *metrics.Metrics
	if cfg.Monitoring.MetricsEnabled {
		m = metrics.New()
	}

	app.pool = workers.NewWorkerPool(jobService, workers.Config{
		Workers:    cfg.Processing.Workers,
		QueueSize:  cfg.Processing.MaxQueueSize,
		JobTimeout: cfg.Processing.JobTimeout,
	}, log)
	app.pool.RegisterProcessor(workers.NewAudioProcessor(app.store, backend, sessionService, log))
	if m != nil {
		app.pool.SetObserver(m)
		m.RegisterQueueDepth(app.pool.QueueDepth)
	}
	// Workers and cleanup outlive the signal context; shutdown stops them
	// after the HTTP server drained
	background := context.WithoutCancel(ctx)
	if err = app.pool.Start(background); err != nil {
		return app, fmt.Errorf("starting worker pool: %w", err)
	}

	waveformService := waveforms.NewService(
		app.store,
		sessionService,
		ff,
		cache.NewMemoryCache(cfg.Processing.WaveformCacheSize, cfg.Processing.WaveformCacheTTL),
		waveforms.Config{DefaultResolution: cfg.Processing.WaveformResolution},
		log,
	)

	app.cleanup = cleanup.NewService(cleanup.Config{
		LiveRoot:     app.store.Root(),
		Prefix:       cfg.Storage.RootPrefix,
		StaleAge:     cfg.Storage.StaleRootAge,
		Interval:     cfg.Storage.HeartbeatInterval,
		JobRetention: cfg.Processing.JobRetention,
	}, jobService, log)
	app.cleanup.Start(background)

	deps := &types.Dependencies{
		DB:            app.db,
		Store:         app.store,
		Sessions:      sessionService,
		Jobs:          jobService,
		Operations:    operations.NewService(app.store, jobService, app.pool, log),
		Waveforms:     waveformService,
		Prober:        ff,
		Metrics:       m,
		MaxUploadSize: cfg.Storage.MaxUploadSize,
		Build: types.BuildInfo{
			Version:   Version,
			GitCommit: GitCommit,
			BuildTime: BuildTime,
		},
	}

	opts := api.Options{
		Address:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		RateLimit: api.RateLimitOptions{
			Enabled: cfg.RateLimiting.Enabled,
			RPS:     cfg.RateLimiting.RPS,
			Burst:   cfg.RateLimiting.Burst,
		},
	}
	if cfg.Security.EnableCORS {
		opts.CORS = &api.CORSConfig{
			Origins:          cfg.Security.CORSOrigins,
			Methods:          cfg.Security.CORSMethods,
			Headers:          cfg.Security.CORSHeaders,
			AllowCredentials: cfg.Security.CORSAllowCredentials,
		}
	}
	if m != nil {
		opts.MetricsPath = cfg.Monitoring.MetricsPath
	}

	app.server = api.NewServer(opts, deps, log)
	if err = app.server.Initialize(); err != nil {
		return app, fmt.Errorf("initializing routes: %w", err)
	}

	return app, nil
}

// shutdown stops components in dependency order: HTTP first so no new jobs
// arrive, then workers, cleanup, the database and finally the store root.
func (a *application) shutdown(ctx context.Context) error {
	var firstErr error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.log.Error("HTTP server shutdown failed", zap.Error(err))
			firstErr = err
		}
	}
	if a.pool != nil {
		a.pool.Stop()
	}
	if a.cleanup != nil {
		a.cleanup.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("database close failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if a.store != nil {
		a.store.Teardown()
	}

	return firstErr
}
