package pipeline

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/agriguard/agriguard/internal/diagnose"
)

// MaxRetries is the number of generation attempts per job.
const MaxRetries = 3

const (
	baseBackoff = time.Second
	maxBackoff  = 30 * time.Second
)

// IsRetryable reports whether err came from a transient provider failure
// (rate limit or server error).
func IsRetryable(err error) bool {
	var retryErr *diagnose.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff is the wait before retry attempt+1: baseBackoff doubled per
// attempt, capped at maxBackoff, plus up to 50% jitter.
func Backoff(attempt int) time.Duration {
	d := maxBackoff
	if attempt < 5 {
		d = min(baseBackoff<<attempt, maxBackoff)
	}
	return d + rand.N(d/2)
}
