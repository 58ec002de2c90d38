package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/killallgit/studio-api/internal/models"
	"github.com/killallgit/studio-api/internal/services/jobs"
	apperrors "github.com/killallgit/studio-api/pkg/errors"
	"go.uber.org/zap"
)

// Pool errors
var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrPoolStopped = errors.New("worker pool is not running")
)

// JobProcessor defines the interface for processing different job types
type JobProcessor interface {
	ProcessJob(ctx context.Context, job *models.Job) error
	CanProcess(jobType models.JobType) bool
}

// JobObserver is told about every job that reaches a terminal state
type JobObserver interface {
	JobFinished(jobType models.JobType, status models.JobStatus, elapsed time.Duration)
}

// Outcome is delivered once per submitted job
type Outcome struct {
	Job *models.Job
	Err error
}

type task struct {
	job  *models.Job
	done chan Outcome
}

// Config sizes a WorkerPool
type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

// Worker executes queued jobs one at a time
type Worker struct {
	id   string
	pool *WorkerPool
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context) {
	defer w.pool.wg.Done()

	w.pool.log.Debug("worker starting", zap.String("worker_id", w.id))
	defer w.pool.log.Debug("worker stopped", zap.String("worker_id", w.id))

	for t := range w.pool.queue {
		if ctx.Err() != nil {
			w.pool.abandon(t, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeServiceDown, "server is shutting down"))
			continue
		}
		w.processJob(ctx, t)
	}
}

// processJob claims, runs and records one job, then reports its outcome
func (w *Worker) processJob(ctx context.Context, t task) {
	p := w.pool
	job, err := p.jobService.ClaimJob(ctx, t.job.ID, w.id)
	if err != nil {
		err = apperrors.Wrap(err, apperrors.ErrCodeInternal, fmt.Sprintf("claiming job %d", t.job.ID))
		if errors.Is(err, jobs.ErrJobAlreadyClaimed) {
			// Another worker owns the record; leave its state alone
			t.done <- Outcome{Job: t.job, Err: err}
			return
		}
		p.abandon(t, err)
		return
	}

	processor := p.processorFor(job.Type)
	if processor == nil {
		err := apperrors.Newf(apperrors.ErrCodeInternal, "no processor registered for job type %s", job.Type)
		p.finish(ctx, t, job, err)
		return
	}

	jobCtx := ctx
	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}

	err = processor.ProcessJob(jobCtx, job)
	if err != nil && errors.Is(jobCtx.Err(), context.DeadlineExceeded) {
		err = apperrors.TimeoutError(string(job.Type), p.jobTimeout.String()).WithCause(err)
	}

	p.finish(ctx, t, job, err)
}

// WorkerPool runs submitted jobs on a fixed number of workers behind a
// bounded queue
type WorkerPool struct {
	jobService jobs.Service
	processors []JobProcessor
	observer   JobObserver
	log        *zap.Logger

	workers    []*Worker
	queue      chan task
	jobTimeout time.Duration

	mu      sync.RWMutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(jobService jobs.Service, cfg Config, log *zap.Logger) *WorkerPool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}
	if log == nil {
		log = zap.NewNop()
	}

	pool := &WorkerPool{
		jobService: jobService,
		log:        log.Named("workers"),
		queue:      make(chan task, cfg.QueueSize),
		jobTimeout: cfg.JobTimeout,
		workers:    make([]*Worker, cfg.Workers),
	}

	for i := 0; i < cfg.Workers; i++ {
		pool.workers[i] = &Worker{id: fmt.Sprintf("worker-%d", i+1), pool: pool}
	}

	return pool
}

// RegisterProcessor registers a processor with all workers
func (p *WorkerPool) RegisterProcessor(processor JobProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processors = append(p.processors, processor)
}

// SetObserver installs a hook called when jobs finish
func (p *WorkerPool) SetObserver(observer JobObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observer = observer
}

// Start starts all workers
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}
	if p.started {
		return fmt.Errorf("worker pool already started")
	}

	ctx, p.cancel = context.WithCancel(ctx)

	p.log.Info("starting worker pool",
		zap.Int("workers", len(p.workers)),
		zap.Int("queue_size", cap(p.queue)))

	for _, worker := range p.workers {
		p.wg.Add(1)
		go worker.run(ctx)
	}

	p.started = true
	return nil
}

// Submit queues a pending job. It never blocks: a full queue yields
// ErrQueueFull. The returned channel receives exactly one Outcome.
func (p *WorkerPool) Submit(job *models.Job) (<-chan Outcome, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started || p.stopped {
		return nil, ErrPoolStopped
	}

	t := task{job: job, done: make(chan Outcome, 1)}
	select {
	case p.queue <- t:
		return t.done, nil
	default:
		return nil, ErrQueueFull
	}
}

// QueueDepth returns the number of jobs waiting for a worker
func (p *WorkerPool) QueueDepth() int {
	return len(p.queue)
}

// Stop cancels in-flight jobs, fails queued ones and waits for the workers
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.stopped = true
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.queue)
	p.cancel()
	p.mu.Unlock()

	p.log.Info("stopping worker pool")
	p.wg.Wait()
}

func (p *WorkerPool) processorFor(jobType models.JobType) JobProcessor {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, proc := range p.processors {
		if proc.CanProcess(jobType) {
			return proc
		}
	}
	return nil
}

// finish records the terminal state of a claimed job and reports it
func (p *WorkerPool) finish(ctx context.Context, t task, job *models.Job, procErr error) {
	// The worker context may already be cancelled; bookkeeping must still land
	dbCtx := context.WithoutCancel(ctx)

	if procErr != nil {
		if err := p.jobService.FailJob(dbCtx, job.ID, procErr); err != nil {
			p.log.Error("failed to mark job as failed", zap.Uint("job_id", job.ID), zap.Error(err))
		}
	} else {
		if err := p.jobService.CompleteJob(dbCtx, job.ID, job.Result); err != nil {
			p.log.Error("failed to mark job as completed", zap.Uint("job_id", job.ID), zap.Error(err))
			procErr = err
		}
	}

	if final, err := p.jobService.GetJob(dbCtx, job.ID); err == nil {
		job = final
	}

	p.observe(job)
	t.done <- Outcome{Job: job, Err: procErr}
}

// abandon cancels a job that was queued but never started
func (p *WorkerPool) abandon(t task, reason error) {
	ctx := context.Background()
	if err := p.jobService.CancelJob(ctx, t.job.ID, reason); err != nil {
		p.log.Error("failed to cancel job", zap.Uint("job_id", t.job.ID), zap.Error(err))
	}

	job := t.job
	if final, err := p.jobService.GetJob(ctx, t.job.ID); err == nil {
		job = final
	}

	p.observe(job)
	t.done <- Outcome{Job: job, Err: reason}
}

func (p *WorkerPool) observe(job *models.Job) {
	p.mu.RLock()
	observer := p.observer
	p.mu.RUnlock()

	if observer != nil {
		observer.JobFinished(job.Type, job.Status, job.Elapsed())
	}
}
