package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap"
)

// CandidateResolver classifies a single candidate
type CandidateResolver interface {
	Resolve(ctx context.Context, candidate string) types.Classification
}

// Scheduler fans candidates out over a fixed-size worker pool
type Scheduler struct {
	threads  int
	worker   CandidateResolver
	progress ProgressReporter
	logger   *zap.Logger
}

// NewScheduler creates a scheduler with threads workers
func NewScheduler(threads int, worker CandidateResolver, progress ProgressReporter, logger *zap.Logger) *Scheduler {
	if threads < 1 {
		threads = 1
	}
	if progress == nil {
		progress = NopReporter{}
	}
	return &Scheduler{
		threads:  threads,
		worker:   worker,
		progress: progress,
		logger:   logger,
	}
}

// Run classifies every candidate exactly once and returns the results in
// completion order. When ctx is cancelled it stops dispatching, waits for
// in-flight candidates and returns ctx.Err() with no results.
func (s *Scheduler) Run(ctx context.Context, candidates []string) ([]types.Classification, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	results := make(chan types.Classification, s.threads)
	var wg sync.WaitGroup

	pool, err := ants.NewPoolWithFunc(s.threads, func(arg interface{}) {
		defer wg.Done()
		candidate := arg.(string)
		results <- s.resolve(ctx, candidate)
	}, ants.WithPreAlloc(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	s.progress.Start(len(candidates))
	defer s.progress.Stop()

	collected := make([]types.Classification, 0, len(candidates))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range results {
			collected = append(collected, result)
			s.progress.Increment()
		}
	}()

	var dispatchErr error
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := pool.Invoke(candidate); err != nil {
			wg.Done()
			dispatchErr = fmt.Errorf("failed to dispatch %q: %w", candidate, err)
			break
		}
	}

	wg.Wait()
	close(results)
	<-done

	if err := ctx.Err(); err != nil {
		s.logger.Warn("Enumeration interrupted",
			zap.Int("completed", len(collected)),
			zap.Int("total", len(candidates)),
		)
		return nil, err
	}
	if dispatchErr != nil {
		return nil, dispatchErr
	}

	return collected, nil
}

// resolve is the worker boundary: a panic becomes a lookup error so the
// remaining candidates still run
func (s *Scheduler) resolve(ctx context.Context, candidate string) (result types.Classification) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Candidate processing panicked",
				zap.String("candidate", candidate),
				zap.String("panic", fmt.Sprint(r)),
			)
			result = types.Rejected(candidate, types.ReasonLookupError)
		}
	}()

	return s.worker.Resolve(ctx, candidate)
}
