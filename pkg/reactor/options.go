//go:build linux

package reactor

import (
	"time"

	"github.com/brickingsoft/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultEntries        = uint32(256)
	defaultWaitCQETimeout = 50 * time.Millisecond
)

type Options struct {
	Entries        uint32
	WaitCQETimeout time.Duration
	Logger         *logrus.Logger
}

type Option func(options *Options) error

// WithEntries sets the submission queue depth, rounded up by the kernel
// to a power of two.
func WithEntries(entries uint32) Option {
	return func(options *Options) error {
		if entries == 0 {
			return errors.Define("reactor: entries must be greater than zero")
		}
		options.Entries = entries
		return nil
	}
}

// WithWaitCQETimeout bounds one blocking wait for completions, which is
// also how often the submission backlog is drained when the ring is idle.
func WithWaitCQETimeout(timeout time.Duration) Option {
	return func(options *Options) error {
		if timeout < 1 {
			return errors.Define("reactor: wait cqe timeout must be greater than zero")
		}
		options.WaitCQETimeout = timeout
		return nil
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(options *Options) error {
		options.Logger = logger
		return nil
	}
}
