package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agriguard/agriguard/internal/diagnose"
	"github.com/agriguard/agriguard/internal/report"
)

// Worker runs a single diagnosis job: generate, then segment.
type Worker struct {
	gen     diagnose.Generator
	seg     *report.Segmenter
	log     *slog.Logger
	timeout time.Duration
	backoff func(attempt int) time.Duration
}

func NewWorker(gen diagnose.Generator, seg *report.Segmenter, log *slog.Logger, timeout time.Duration) *Worker {
	return &Worker{
		gen:     gen,
		seg:     seg,
		log:     log,
		timeout: timeout,
		backoff: Backoff,
	}
}

// Process runs the job to a terminal status.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "language", job.Language)

	description, attachments, lang := job.input()

	// Phase 1: Generate
	job.SetStatus(StatusGenerating, "generating")
	prompt := diagnose.BuildPrompt(description, lang)
	start := time.Now()
	text, err := w.generate(ctx, log, job, prompt, attachments)
	if err != nil {
		log.Error("generation failed", "error", err)
		job.Fail(err, "generating")
		return
	}
	log.Info("generation complete", "chars", len(text), "duration_ms", time.Since(start).Milliseconds())

	// Phase 2: Segment
	job.SetStatus(StatusSegmenting, "segmenting")
	view := w.seg.BuildView(text, lang)
	job.SetResult(text, view)
	log.Info("segmentation complete", "sections", len(view.Sections), "fallback", view.Fallback)

	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) generate(ctx context.Context, log *slog.Logger, job *Job, prompt string, attachments []diagnose.Attachment) (string, error) {
	var lastErr error
	for attempt := range MaxRetries {
		job.IncrAttempts()
		text, err := w.generateOnce(ctx, prompt, attachments)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable generation error", "attempt", attempt, "error", err)
		job.AddError(err.Error())
		select {
		case <-time.After(w.backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if IsRetryable(lastErr) {
		return "", fmt.Errorf("%w: %w", diagnose.ErrProvider, lastErr)
	}
	return "", lastErr
}

func (w *Worker) generateOnce(ctx context.Context, prompt string, attachments []diagnose.Attachment) (string, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	return w.gen.Generate(ctx, prompt, attachments)
}
