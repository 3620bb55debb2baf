package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/expedientes/constants"
	"github.com/joseph-ayodele/expedientes/internal/common"
	"github.com/joseph-ayodele/expedientes/internal/ingest"
)

func TestProcessorQueueDrainsOnShutdown(t *testing.T) {
	var processed atomic.Int32
	var mu sync.Mutex
	var traces []string
	proc := ingest.FileProcessorFunc(func(ctx context.Context, path string) (ingest.Result, error) {
		processed.Add(1)
		mu.Lock()
		traces = append(traces, common.RequestIDFromContext(ctx))
		mu.Unlock()
		if path == "bad.txt" {
			return ingest.Result{}, errors.New("boom")
		}
		return ingest.Result{SourcePath: path, Status: constants.JobStatusValid}, nil
	})

	var failures atomic.Int32
	q := NewProcessorQueue(proc, nil,
		WithWorkers(3),
		WithQueueSize(2),
		WithProcessTimeout(time.Second),
		WithResultHook(func(_ Job, _ ingest.Result, err error) {
			if err != nil {
				failures.Add(1)
			}
		}),
	)

	ctx := context.Background()
	for _, p := range []string{"a.txt", "b.txt", "bad.txt", "c.md", "d.md"} {
		require.NoError(t, q.Enqueue(ctx, Job{Path: p, TraceID: "trace-" + p}))
	}
	q.Shutdown(ctx)

	assert.EqualValues(t, 5, processed.Load())
	assert.EqualValues(t, 1, failures.Load())
	assert.Contains(t, traces, "trace-bad.txt")

	assert.ErrorIs(t, q.Enqueue(ctx, Job{Path: "late.txt"}), ErrQueueClosed)
	q.Shutdown(ctx)
}

func TestProcessorQueueEnqueueHonorsContext(t *testing.T) {
	release := make(chan struct{})
	proc := ingest.FileProcessorFunc(func(context.Context, string) (ingest.Result, error) {
		<-release
		return ingest.Result{}, nil
	})
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1))

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{Path: "1.txt"}))
	// the single worker may or may not have picked up the first job yet
	_ = q.Enqueue(ctx, Job{Path: "2.txt"})

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(short, Job{Path: "3.txt"})
	if err != nil {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}

	close(release)
	q.Shutdown(ctx)
}

func TestProcessorQueueTimeout(t *testing.T) {
	var sawDeadline atomic.Bool
	proc := ingest.FileProcessorFunc(func(ctx context.Context, _ string) (ingest.Result, error) {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ingest.Result{}, ctx.Err()
	})
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithProcessTimeout(10*time.Millisecond))
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "slow.txt"}))
	q.Shutdown(context.Background())
	assert.True(t, sawDeadline.Load())
}

func TestProcessorQueueShutdownReleasesBlockedEnqueue(t *testing.T) {
	release := make(chan struct{})
	picked := make(chan struct{}, 1)
	proc := ingest.FileProcessorFunc(func(context.Context, string) (ingest.Result, error) {
		select {
		case picked <- struct{}{}:
		default:
		}
		<-release
		return ingest.Result{}, nil
	})
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1))

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{Path: "1.txt"}))
	<-picked
	require.NoError(t, q.Enqueue(ctx, Job{Path: "2.txt"}))

	blocked := make(chan error, 1)
	go func() { blocked <- q.Enqueue(ctx, Job{Path: "3.txt"}) }()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		q.Shutdown(ctx)
	}()

	select {
	case err := <-blocked:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue still blocked after shutdown")
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}
