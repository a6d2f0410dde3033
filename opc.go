// Package opc couples a fixed-identity operation context store with the
// completion-queue event loop that consumes it. The store
// (pkg/opstore) correlates every in-flight asynchronous operation with
// the fiber awaiting it; the reactor (pkg/reactor) drives an io_uring
// instance and resumes fibers as completions land; fibers (pkg/fiber)
// run on rxp executors.
package opc

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/rxp"
)

var (
	executors     rxp.Executors = nil
	executorsOnce sync.Once
)

// Startup builds the ambient executors fibers are spawned on. Call it at
// the start of the program when the defaults are not enough; without it
// the first use builds a default set.
func Startup(options ...rxp.Option) (err error) {
	// rxp.New panics on invalid options, surface that as an error
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(fmt.Sprintf("opc: startup failed: %+v", r))
		}
	}()
	executors = rxp.New(options...)
	return
}

// Shutdown closes the ambient executors without waiting for running
// fibers to finish. Use ShutdownGracefully to wait.
func Shutdown() error {
	runtime.SetFinalizer(executors, nil)
	return Executors().Close()
}

func ShutdownGracefully() error {
	runtime.SetFinalizer(executors, nil)
	return Executors().CloseGracefully()
}

func Executors() rxp.Executors {
	executorsOnce.Do(func() {
		if executors == nil {
			executors = rxp.New()
			runtime.SetFinalizer(executors, rxp.Executors.CloseGracefully)
		}
	})
	return executors
}

// With attaches the ambient executors to ctx, which is what fiber.Spawn
// looks for.
func With(ctx context.Context) context.Context {
	return rxp.With(ctx, Executors())
}
