package geoproc

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

const defaultMaxConcurrent = 4

// Runner bounds how many geoprocessing operations run at once. Large
// geometry sets are CPU-bound; unbounded concurrency would let parallel tool
// calls starve the server.
type Runner struct {
	sem *semaphore.Weighted
}

func NewRunner(maxConcurrent int64) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Runner{sem: semaphore.NewWeighted(maxConcurrent)}
}

// Run executes fn under the concurrency bound, waiting for a slot or the
// context, whichever comes first.
func Run[T any](ctx context.Context, r *Runner, fn func() (T, error)) (T, error) {
	var zero T
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return zero, fmt.Errorf("acquire geoproc slot: %w", err)
	}
	defer r.sem.Release(1)
	return fn()
}
