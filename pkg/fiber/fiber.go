package fiber

import (
	"context"
	"sync/atomic"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/rxp"
)

var (
	ErrCanceled    = errors.Define("fiber: canceled")
	ErrNoExecutors = errors.Define("fiber: no executors in context")
)

var ids atomic.Uint64

func New() *Fiber {
	return &Fiber{
		id: ids.Add(1),
		ch: make(chan any, 1),
	}
}

// Fiber is a cooperatively scheduled unit of control. It suspends by
// awaiting its resume channel and is woken with a single value by
// whoever holds a reference to it, typically the completion loop.
type Fiber struct {
	id uint64
	ch chan any
}

func (fib *Fiber) ID() uint64 {
	return fib.id
}

// Resume hands v to the awaiting fiber. The channel is buffered so a
// resume that arrives before the await does not block the resumer.
func (fib *Fiber) Resume(v any) {
	fib.ch <- v
	return
}

// Await suspends the fiber until a value is delivered or ctx ends.
func (fib *Fiber) Await(ctx context.Context) (v any, err error) {
	select {
	case v = <-fib.ch:
		break
	case <-ctx.Done():
		err = errors.From(ErrCanceled, errors.WithWrap(ctx.Err()))
		break
	}
	return
}

// Spawn runs fn as a new fiber on the rxp executors carried by ctx.
func Spawn(ctx context.Context, fn func(fib *Fiber)) (fib *Fiber, err error) {
	exec, has := rxp.TryFrom(ctx)
	if !has {
		err = ErrNoExecutors
		return
	}
	fib = New()
	if execErr := exec.Execute(ctx, func() {
		fn(fib)
	}); execErr != nil {
		fib = nil
		err = execErr
		return
	}
	return
}
