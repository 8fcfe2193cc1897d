package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/agriguard/agriguard/internal/diagnose"
	"github.com/agriguard/agriguard/internal/locale"
	"github.com/agriguard/agriguard/internal/report"
)

// JobStatus represents the state of a diagnosis job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusGenerating JobStatus = "generating"
	StatusSegmenting JobStatus = "segmenting"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions follow.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks one diagnosis request from submission to segmented result.
type Job struct {
	mu sync.Mutex

	ID       string          `json:"job_id"`
	Status   JobStatus       `json:"status"`
	Phase    string          `json:"phase"`
	Language locale.Language `json:"language"`

	// ContentHash identifies identical requests.
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	description string
	attachments []diagnose.Attachment
	attempts    int
	errors      []string
	failure     error
	diagnosis   string
	view        *report.View
	done        chan struct{}
}

// NewJob creates a queued job for a validated request.
func NewJob(id string, req diagnose.Request, attachments []diagnose.Attachment) *Job {
	now := time.Now()
	return &Job{
		ID:          id,
		Status:      StatusQueued,
		Phase:       "queued",
		Language:    req.Language,
		ContentHash: RequestHash(req),
		CreatedAt:   now,
		UpdatedAt:   now,
		description: req.Description,
		attachments: attachments,
		done:        make(chan struct{}),
	}
}

// SetStatus updates job status atomically. Reaching a terminal status
// releases waiters on Done.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status.Terminal() {
		return
	}
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
	if status.Terminal() && j.done != nil {
		close(j.done)
	}
}

// Fail records err and moves the job to failed.
func (j *Job) Fail(err error, phase string) {
	j.mu.Lock()
	j.failure = err
	j.mu.Unlock()
	j.AddError(err.Error())
	j.SetStatus(StatusFailed, phase)
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// IncrAttempts counts one generation attempt.
func (j *Job) IncrAttempts() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts++
	j.UpdatedAt = time.Now()
}

// SetResult stores the generated text and its segmented view.
func (j *Job) SetResult(diagnosis string, view report.View) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.diagnosis = diagnosis
	j.view = &view
	j.UpdatedAt = time.Now()
}

// Result returns the segmented view once the job has completed.
func (j *Job) Result() (report.View, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status != StatusCompleted || j.view == nil {
		return report.View{}, false
	}
	return *j.view, true
}

// Err returns the error that failed the job, if any.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.failure
}

// Done is closed when the job completes or fails.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) input() (string, []diagnose.Attachment, locale.Language) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.description, j.attachments, j.Language
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string          `json:"job_id"`
	Status    JobStatus       `json:"status"`
	Phase     string          `json:"phase"`
	Language  locale.Language `json:"language"`
	Attempts  int             `json:"attempts"`
	Errors    []string        `json:"errors"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Diagnosis string          `json:"diagnosis,omitempty"`
	Report    *report.View    `json:"report,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.errors...)
	snap := JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Phase:     j.Phase,
		Language:  j.Language,
		Attempts:  j.attempts,
		Errors:    errs,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Diagnosis: j.diagnosis,
	}
	if j.view != nil {
		v := *j.view
		snap.Report = &v
	}
	return snap
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	byHash map[string]string
	ttl    time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs:   make(map[string]*Job),
		byHash: make(map[string]string),
		ttl:    ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	if job.ContentHash != "" {
		s.byHash[job.ContentHash] = job.ID
	}
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Delete removes a job.
func (s *JobStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.jobs[id]
	if job == nil {
		return
	}
	delete(s.jobs, id)
	if s.byHash[job.ContentHash] == id {
		delete(s.byHash, job.ContentHash)
	}
}

// FindReusable returns a live job for the same request that has not failed.
func (s *JobStore) FindReusable(hash string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reusableLocked(hash)
}

// PutIfAbsent stores job unless a reusable job with the same content hash
// exists, in which case that job is returned and added is false.
func (s *JobStore) PutIfAbsent(job *Job) (stored *Job, added bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.reusableLocked(job.ContentHash); existing != nil {
		return existing, false
	}
	s.jobs[job.ID] = job
	if job.ContentHash != "" {
		s.byHash[job.ContentHash] = job.ID
	}
	return job, true
}

func (s *JobStore) reusableLocked(hash string) *Job {
	job := s.jobs[s.byHash[hash]]
	if job == nil {
		return nil
	}
	job.mu.Lock()
	defer job.mu.Unlock()
	if job.Status == StatusFailed {
		return nil
	}
	return job
}

// Len returns the number of stored jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes finished jobs older than the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := job.Status.Terminal() && now.Sub(job.UpdatedAt) > s.ttl
		hash := job.ContentHash
		job.mu.Unlock()
		if !expired {
			continue
		}
		delete(s.jobs, id)
		if s.byHash[hash] == id {
			delete(s.byHash, hash)
		}
	}
}

// RequestHash computes a SHA-256 over the fields that determine a diagnosis.
func RequestHash(req diagnose.Request) string {
	h := sha256.New()
	for _, part := range []string{string(req.Language), req.Description, req.ImageBase64} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
