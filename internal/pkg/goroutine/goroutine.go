// Package goroutine runs the service's long-lived background tasks.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shandysiswandi/otpgate/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 4

var (
	// ErrClosed is returned by Go once Wait has been called.
	ErrClosed = errors.New("goroutine: manager is closed")
	// ErrLimitReached is returned by Go when every slot is taken.
	ErrLimitReached = errors.New("goroutine: maximum goroutine limit reached")
	// ErrPanic wraps a recovered task panic in the error returned by Wait.
	ErrPanic = errors.New("goroutine: task panicked")
)

// Manager runs named tasks in goroutines with a configurable concurrency
// limit. Task errors and panics are collected and reported by Wait.
type Manager struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	sema   chan struct{}
	errs   []error
	closed bool
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		sema: make(chan struct{}, maxGoroutine),
	}
}

// Go starts f as the task called name. A task whose ctx is already done is
// accepted but never runs f. Errors caused by ctx cancellation are not
// collected.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) error {
	if g == nil {
		return ErrClosed
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine", "task", name)
		return ErrClosed
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "maximum goroutine limit reached, task not started", "task", name)
		return ErrLimitReached
	}

	g.wg.Add(1)
	go g.run(ctx, name, f)

	return nil
}

func (g *Manager) run(ctx context.Context, name string, f func(ctx context.Context) error) {
	defer g.wg.Done()
	defer func() { <-g.sema }()
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic occurred in goroutine", "task", name, "because", rvr, "stack", stacktrace.Internal(0))
			g.record(fmt.Errorf("%w: %s: %v", ErrPanic, name, rvr))
		}
	}()

	if err := ctx.Err(); err != nil {
		slog.WarnContext(ctx, "goroutine canceled", "task", name, "because", err)
		return
	}

	if err := f(ctx); err != nil && !errors.Is(err, context.Canceled) {
		g.record(fmt.Errorf("%s: %w", name, err))
	}
}

func (g *Manager) record(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Wait stops the manager from accepting tasks, blocks until the running ones
// return and joins their errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}
