package dialog

import (
	"context"
	"errors"
	"sync"
)

// ErrCancelled is the rejection reason of a cancelled dialog.
var ErrCancelled = errors.New("dialog cancelled")

// Result is what an accepted dialog resolves with. HasValue is false for
// dialogs without an input field.
type Result struct {
	Value    string
	HasValue bool
}

// Handle is the eventual outcome of a dialog. It settles at most once,
// either resolved with a Result or rejected with ErrCancelled.
type Handle struct {
	once   sync.Once
	done   chan struct{}
	result Result
	err    error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

func (h *Handle) settle(r Result, err error) bool {
	settled := false
	h.once.Do(func() {
		h.result = r
		h.err = err
		settled = true
		close(h.done)
	})
	return settled
}

func (h *Handle) resolve(r Result) bool {
	return h.settle(r, nil)
}

func (h *Handle) reject(err error) bool {
	return h.settle(Result{}, err)
}

// Done is closed once the handle settles. It never closes for a dialog
// whose cancellation was suppressed.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Settled reports whether the handle has resolved or rejected.
func (h *Handle) Settled() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Outcome returns the settled result without blocking. settled is false
// while the handle is pending.
func (h *Handle) Outcome() (res Result, settled bool, err error) {
	if !h.Settled() {
		return Result{}, false, nil
	}
	return h.result, true, h.err
}

// Wait blocks until the handle settles or ctx ends.
func (h *Handle) Wait(ctx context.Context) (Result, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
