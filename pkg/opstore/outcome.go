package opstore

import (
	"syscall"

	"github.com/brickingsoft/errors"
)

var ErrOutcomeKind = errors.Define("opstore: outcome kind mismatched")

// Outcome carries a completion result together with the kind that tells
// how to read it. Negative results are negated errnos, the completion
// queue convention.
type Outcome struct {
	Kind   Kind
	Result int
}

// Err decodes the raw result as success or errno.
func (o Outcome) Err() error {
	if o.Result < 0 {
		return syscall.Errno(-o.Result)
	}
	return nil
}

// Bytes reads the result of a transfer operation as a byte count.
func (o Outcome) Bytes() (n int, err error) {
	switch o.Kind {
	case Read, Writev, Write, Recv, Send:
		break
	default:
		err = ErrOutcomeKind
		return
	}
	if err = o.Err(); err != nil {
		return
	}
	n = o.Result
	return
}

// AcceptedFd reads the result of an accept as the peer descriptor.
func (o Outcome) AcceptedFd() (fd int, err error) {
	if o.Kind != Accept {
		err = ErrOutcomeKind
		return
	}
	if err = o.Err(); err != nil {
		return
	}
	fd = o.Result
	return
}
