package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/yourusername/wildsub/internal/types"
)

type fakeResolver struct {
	answers  map[string][]string
	errs     map[string]error
	fallback []string
}

func (f *fakeResolver) ResolveA(_ context.Context, name string) ([]string, error) {
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if ips, ok := f.answers[name]; ok {
		return ips, nil
	}
	if len(f.fallback) > 0 {
		return f.fallback, nil
	}
	return nil, fmt.Errorf("%s: %w", name, types.ErrNotFound)
}

type countingVerifier struct {
	real  bool
	calls atomic.Int32
}

func (v *countingVerifier) IsRealSubdomain(context.Context, string, *types.WildcardState) bool {
	v.calls.Add(1)
	return v.real
}

type fixedDetector struct {
	state *types.WildcardState
}

func (d fixedDetector) Detect(context.Context, string) *types.WildcardState {
	return d.state
}

type recordingReporter struct {
	mu        sync.Mutex
	total     int
	increment int
	stopped   bool
}

func (r *recordingReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
}

func (r *recordingReporter) Increment() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.increment++
}

func (r *recordingReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
}
