//go:build linux

package reactor

import (
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/opc/pkg/opstore"
	"github.com/eapache/queue"
	"github.com/pawelgaczynski/giouring"
	"github.com/sirupsen/logrus"
)

var (
	ErrClosed            = errors.Define("reactor: closed")
	ErrUnsupportedKernel = errors.Define("reactor: kernel is too old for io_uring send/recv")
)

// pending keeps a taken context together with its submission so buffers
// referenced by prepared SQEs stay reachable until the completion lands.
type pending struct {
	ctx *opstore.Context
	sub *submission
}

func New(options ...Option) (r *Reactor, err error) {
	opts := Options{
		Entries:        defaultEntries,
		WaitCQETimeout: defaultWaitCQETimeout,
		Logger:         logrus.StandardLogger(),
	}
	for _, o := range options {
		if err = o(&opts); err != nil {
			return
		}
	}

	// send/recv opcodes landed in 5.6
	if major, minor := kernelVersion(); major < 5 || (major == 5 && minor < 6) {
		err = ErrUnsupportedKernel
		return
	}

	ring, ringErr := giouring.CreateRing(opts.Entries)
	if ringErr != nil {
		err = ringErr
		return
	}

	r = &Reactor{
		ring:           ring,
		store:          opstore.NewStore(),
		index:          make(map[uint64]*pending),
		backlog:        queue.New(),
		entries:        opts.Entries,
		waitCQETimeout: opts.WaitCQETimeout,
		log:            opts.Logger.WithField("component", "reactor"),
		stopCh:         make(chan struct{}),
	}
	r.wg.Add(1)
	go r.process()
	return
}

// Reactor drives one io_uring instance. One goroutine owns the ring, the
// context store and the id index; fibers only touch the backlog, so the
// store sees no concurrent mutation.
type Reactor struct {
	ring           *giouring.Ring
	store          *opstore.Store
	index          map[uint64]*pending
	mu             sync.Mutex
	backlog        *queue.Queue
	entries        uint32
	waitCQETimeout time.Duration
	log            *logrus.Entry
	closed         atomic.Bool
	stopCh         chan struct{}
	wg             sync.WaitGroup
}

func (r *Reactor) push(sub *submission) error {
	// checked under the mutex: evict drains the backlog under the same
	// mutex after closed is set, so any add that passed this check is
	// guaranteed to be drained and its owner resumed.
	r.mu.Lock()
	if r.closed.Load() {
		r.mu.Unlock()
		return ErrClosed
	}
	r.backlog.Add(sub)
	r.mu.Unlock()
	return nil
}

// bind acquires a context for sub and registers it in the side index so
// the completion can be matched back by id.
func (r *Reactor) bind(sub *submission) (ctx *opstore.Context) {
	ctx = r.store.Acquire(sub.kind, sub.owner)
	r.index[ctx.ID()] = &pending{ctx: ctx, sub: sub}
	return
}

func (r *Reactor) flush() {
	prepared := 0
	for {
		r.mu.Lock()
		if r.backlog.Length() == 0 {
			r.mu.Unlock()
			break
		}
		sub := r.backlog.Peek().(*submission)
		r.mu.Unlock()

		sqe := r.ring.GetSQE()
		if sqe == nil {
			// sq saturated, submit what is prepared and come back
			break
		}
		ctx := r.bind(sub)
		prepareSQE(sqe, sub, ctx.ID())

		r.mu.Lock()
		r.backlog.Remove()
		r.mu.Unlock()

		submittedTotal.WithLabelValues(sub.kind.String()).Inc()
		inflightGauge.Inc()
		prepared++
	}
	if prepared == 0 {
		return
	}
	for {
		if _, submitErr := r.ring.Submit(); submitErr != nil {
			if errors.Is(submitErr, syscall.EAGAIN) || errors.Is(submitErr, syscall.EINTR) || errors.Is(submitErr, syscall.ETIME) {
				continue
			}
			r.log.WithError(submitErr).Error("submit failed")
		}
		break
	}
	return
}

// dispatch matches one completion event back to its context, records the
// result, releases the context and wakes the owner with the outcome.
func (r *Reactor) dispatch(id uint64, res int32, flags uint32) {
	p, has := r.index[id]
	if !has {
		r.log.WithField("id", id).WithField("flags", flags).Warn("completion for unknown context")
		return
	}
	delete(r.index, id)

	ctx := p.ctx
	ctx.Complete(int(res))
	outcome := ctx.Outcome()
	owner := ctx.Owner()
	r.store.Release(ctx)

	if res < 0 {
		failedTotal.WithLabelValues(outcome.Kind.String()).Inc()
	} else {
		completedTotal.WithLabelValues(outcome.Kind.String()).Inc()
	}
	inflightGauge.Dec()

	if owner != nil {
		owner.Resume(outcome)
	}
	runtime.KeepAlive(p.sub)
	return
}

func (r *Reactor) process() {
	defer r.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cq := make([]*giouring.CompletionQueueEvent, r.entries)
	waitTimeout := syscall.NsecToTimespec(r.waitCQETimeout.Nanoseconds())
	stopped := false
	for {
		select {
		case <-r.stopCh:
			stopped = true
			break
		default:
			r.flush()
			if _, waitErr := r.ring.WaitCQEs(1, &waitTimeout, nil); waitErr != nil {
				if !errors.Is(waitErr, syscall.ETIME) && !errors.Is(waitErr, syscall.EINTR) && !errors.Is(waitErr, syscall.EAGAIN) {
					r.log.WithError(waitErr).Warn("wait completions failed")
				}
			}
			if completed := r.ring.PeekBatchCQE(cq); completed > 0 {
				for i := uint32(0); i < completed; i++ {
					cqe := cq[i]
					cq[i] = nil
					if cqe.UserData == 0 {
						continue
					}
					r.dispatch(cqe.UserData, cqe.Res, cqe.Flags)
				}
				r.ring.CQAdvance(completed)
			}
			break
		}
		if stopped {
			break
		}
	}
	r.evict()
	return
}

// evict fails every outstanding and queued operation, then tears the
// store down. Runs on the loop goroutine after stop.
func (r *Reactor) evict() {
	for id, p := range r.index {
		delete(r.index, id)
		ctx := p.ctx
		owner := ctx.Owner()
		if !ctx.Completed() {
			ctx.Complete(-int(syscall.ECANCELED))
		}
		outcome := ctx.Outcome()
		r.store.Release(ctx)
		inflightGauge.Dec()
		if owner != nil {
			owner.Resume(outcome)
		}
	}
	r.mu.Lock()
	for r.backlog.Length() > 0 {
		sub := r.backlog.Remove().(*submission)
		if sub.owner != nil {
			sub.owner.Resume(opstore.Outcome{Kind: sub.kind, Result: -int(syscall.ECANCELED)})
		}
	}
	r.mu.Unlock()
	r.store.Close()
	return
}

func (r *Reactor) Close() (err error) {
	if !r.closed.CompareAndSwap(false, true) {
		err = ErrClosed
		return
	}
	close(r.stopCh)
	r.wg.Wait()
	r.ring.QueueExit()
	r.log.Info("closed")
	return
}
