package opc

import (
	"context"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/rxp/async"
)

var (
	ErrClosed = errors.Define("opc: closed")
	ErrBusy   = errors.Define("opc: system busy")
)

func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, async.ExecutorsClosed)
}

func IsBusy(err error) bool {
	return errors.Is(err, ErrBusy) || errors.Is(err, async.Busy)
}
