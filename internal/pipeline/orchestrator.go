package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/agriguard/agriguard/internal/config"
	"github.com/agriguard/agriguard/internal/diagnose"
	"github.com/agriguard/agriguard/internal/report"
)

var (
	ErrQueueFull = errors.New("job queue is full")
	ErrStopped   = errors.New("pipeline is stopped")
)

const cleanupInterval = 5 * time.Minute

// Orchestrator manages the diagnosis pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	gen   diagnose.Generator
	seg   *report.Segmenter
	log   *slog.Logger
	cfg   config.Config

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, gen diagnose.Generator, seg *report.Segmenter, log *slog.Logger) *Orchestrator {
	if seg == nil {
		seg = report.NewSegmenter(nil)
	}
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		gen:   gen,
		seg:   seg,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.gen, o.seg, o.log, o.cfg.GenerateTimeout)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop cancels running jobs and waits for workers to exit. Jobs still
// queued are failed.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()

	for job := range o.queue {
		job.Fail(ErrStopped, "queued")
	}
}

// Submit queues job. When an identical request is already queued, running
// or completed, that job is returned instead and nothing is queued.
func (o *Orchestrator) Submit(job *Job) (*Job, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return nil, ErrStopped
	}
	stored, added := o.jobs.PutIfAbsent(job)
	if !added {
		o.log.Info("reusing job for identical request", "job_id", stored.ID)
		return stored, nil
	}
	select {
	case o.queue <- job:
		return job, nil
	default:
		o.jobs.Delete(job.ID)
		return nil, fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Segmenter returns the segmenter used for generated reports.
func (o *Orchestrator) Segmenter() *report.Segmenter {
	return o.seg
}
