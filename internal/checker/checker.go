package checker

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Outcome is the result of running one task against one target.
type Outcome[T any] struct {
	Target   string
	Value    T
	Err      error
	Duration time.Duration
}

// Runner orchestrates the execution of tasks with concurrency and rate limiting
type Runner struct {
	Concurrency int           // Maximum number of concurrent tasks
	RateLimit   int           // Requests per second (global); zero disables limiting
	Timeout     time.Duration // Timeout for each task; zero disables it

	// OnDone, when set, is called after each target finishes. It may be
	// called from several goroutines at once.
	OnDone func(target string, err error, elapsed time.Duration)
}

// Task analyzes a single target.
type Task[T any] func(ctx context.Context, target string) (T, error)

// Run executes task for every target and returns the outcomes in input
// order. A failing target does not stop the others. If ctx is cancelled,
// targets that never started report the context error.
func Run[T any](ctx context.Context, r Runner, targets []string, task Task[T]) []Outcome[T] {
	outcomes := make([]Outcome[T], len(targets))

	var limiter *rate.Limiter
	if r.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.RateLimit), r.RateLimit)
	}

	var g errgroup.Group
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	g.SetLimit(concurrency)

	for i, target := range targets {
		outcomes[i].Target = target
		g.Go(func() error {
			if r.OnDone != nil {
				defer func() {
					r.OnDone(target, outcomes[i].Err, outcomes[i].Duration)
				}()
			}
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					outcomes[i].Err = err
					return nil
				}
			}
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}

			taskCtx := ctx
			if r.Timeout > 0 {
				var cancel context.CancelFunc
				taskCtx, cancel = context.WithTimeout(ctx, r.Timeout)
				defer cancel()
			}

			start := time.Now()
			outcomes[i].Value, outcomes[i].Err = task(taskCtx, target)
			outcomes[i].Duration = time.Since(start)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}
