package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/wildsub/internal/types"
	"go.uber.org/zap/zaptest"
)

// trackingResolver records dispatches and peak concurrency
type trackingResolver struct {
	mu       sync.Mutex
	seen     map[string]int
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
	panicOn  string
}

func (r *trackingResolver) Resolve(ctx context.Context, candidate string) types.Classification {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}

	r.mu.Lock()
	r.seen[candidate]++
	r.mu.Unlock()

	if candidate == r.panicOn {
		panic("resolver exploded")
	}

	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
	}
	return types.Accepted(candidate+".example.com", []string{"1.2.3.4"})
}

func candidates(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("c%03d", i)
	}
	return out
}

func TestSchedulerCompleteness(t *testing.T) {
	r := &trackingResolver{seen: make(map[string]int), delay: time.Millisecond}
	progress := &recordingReporter{}
	s := NewScheduler(4, r, progress, zaptest.NewLogger(t))

	input := candidates(100)
	results, err := s.Run(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, results, len(input))
	names := make([]string, 0, len(results))
	for _, c := range results {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	for i, name := range names {
		assert.Equal(t, input[i]+".example.com", name)
	}

	for _, c := range input {
		assert.Equal(t, 1, r.seen[c], "candidate %s dispatched once", c)
	}
	assert.LessOrEqual(t, r.peak.Load(), int32(4))

	assert.Equal(t, 100, progress.total)
	assert.Equal(t, 100, progress.increment)
	assert.True(t, progress.stopped)
}

func TestSchedulerEmpty(t *testing.T) {
	s := NewScheduler(4, &trackingResolver{seen: make(map[string]int)}, nil, zaptest.NewLogger(t))
	results, err := s.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSchedulerPanicBecomesLookupError(t *testing.T) {
	r := &trackingResolver{seen: make(map[string]int), panicOn: "c002"}
	s := NewScheduler(2, r, nil, zaptest.NewLogger(t))

	results, err := s.Run(context.Background(), candidates(5))
	require.NoError(t, err)
	require.Len(t, results, 5)

	var failed []types.Classification
	for _, c := range results {
		if !c.IsAccepted() {
			failed = append(failed, c)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, types.ReasonLookupError, failed[0].Reason)
	assert.Equal(t, "c002", failed[0].Name)
}

func TestSchedulerCancellation(t *testing.T) {
	r := &trackingResolver{seen: make(map[string]int), delay: time.Hour}
	s := NewScheduler(2, r, nil, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	results, err := s.Run(ctx, candidates(1000))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
	assert.Less(t, time.Since(start), 5*time.Second)

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Less(t, len(r.seen), 1000, "dispatch stops after cancellation")
}
