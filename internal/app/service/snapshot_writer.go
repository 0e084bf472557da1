package service

import (
	"context"
	"sync"
	"time"

	"github.com/ikkim/udonggeum-storefront/internal/app/repository"
	"github.com/ikkim/udonggeum-storefront/pkg/logger"
)

// snapshotWriter persists cart snapshots on a background goroutine.
//
// It holds at most one pending snapshot. Scheduling a new one replaces whatever
// has not been written yet, so the last write to land is always the latest state.
type snapshotWriter struct {
	repo    repository.CartSnapshotRepository
	timeout time.Duration

	mu         sync.Mutex
	pending    []byte
	hasPending bool
	scheduled  uint64
	written    uint64
	waiters    []chan struct{}
	closed     bool

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newSnapshotWriter(repo repository.CartSnapshotRepository, timeout time.Duration) *snapshotWriter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	w := &snapshotWriter{
		repo:    repo,
		timeout: timeout,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// schedule queues data for writing and returns immediately.
func (w *snapshotWriter) schedule(data []byte) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		logger.Warn("Cart snapshot dropped: writer closed", nil)
		return
	}
	w.pending = data
	w.hasPending = true
	w.scheduled++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *snapshotWriter) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.writePending()
		case <-w.stop:
			w.writePending()
			return
		}
	}
}

func (w *snapshotWriter) writePending() {
	w.mu.Lock()
	if !w.hasPending {
		w.mu.Unlock()
		return
	}
	data, seq := w.pending, w.scheduled
	w.pending, w.hasPending = nil, false
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	err := w.repo.Save(ctx, data)
	cancel()
	if err != nil {
		logger.Error("Failed to persist cart snapshot", err, map[string]interface{}{
			"bytes": len(data),
		})
	}

	w.mu.Lock()
	w.written = seq
	waiters := w.waiters
	w.waiters = nil
	w.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// flush blocks until every snapshot scheduled before the call has been handed to
// the repository, or ctx ends.
func (w *snapshotWriter) flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.scheduled
	w.mu.Unlock()

	for {
		w.mu.Lock()
		if w.written >= target {
			w.mu.Unlock()
			return nil
		}
		ch := make(chan struct{})
		w.waiters = append(w.waiters, ch)
		w.mu.Unlock()

		select {
		case <-ch:
		case <-w.done:
			w.mu.Lock()
			landed := w.written >= target
			w.mu.Unlock()
			if landed {
				return nil
			}
			return context.Canceled
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close writes any pending snapshot and stops the goroutine.
func (w *snapshotWriter) close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.stop)
	})

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
