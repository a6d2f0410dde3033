//go:build linux

package reactor

import (
	"syscall"
	"time"

	"github.com/brickingsoft/opc/pkg/opstore"
)

// submission carries everything a prepared SQE references. It is kept
// alive alongside its context until the completion is dispatched.
type submission struct {
	kind   opstore.Kind
	owner  opstore.Owner
	fd     int
	b      []byte
	bs     [][]byte
	iov    []syscall.Iovec
	rsa    *syscall.RawSockaddrAny
	rsaLen uint32
	ts     syscall.Timespec
	mask   uint32
}

// Read queues a read at the file's current offset. The owner is resumed
// with the operation's Outcome once the completion lands.
func (r *Reactor) Read(owner opstore.Owner, fd int, b []byte) error {
	return r.push(&submission{kind: opstore.Read, owner: owner, fd: fd, b: b})
}

func (r *Reactor) Write(owner opstore.Owner, fd int, b []byte) error {
	return r.push(&submission{kind: opstore.Write, owner: owner, fd: fd, b: b})
}

func (r *Reactor) Writev(owner opstore.Owner, fd int, bs [][]byte) error {
	iov := make([]syscall.Iovec, 0, len(bs))
	for _, b := range bs {
		v := syscall.Iovec{Len: uint64(len(b))}
		if len(b) > 0 {
			v.Base = &b[0]
		}
		iov = append(iov, v)
	}
	return r.push(&submission{kind: opstore.Writev, owner: owner, fd: fd, bs: bs, iov: iov})
}

func (r *Reactor) Recv(owner opstore.Owner, fd int, b []byte) error {
	return r.push(&submission{kind: opstore.Recv, owner: owner, fd: fd, b: b})
}

func (r *Reactor) Send(owner opstore.Owner, fd int, b []byte) error {
	return r.push(&submission{kind: opstore.Send, owner: owner, fd: fd, b: b})
}

// Accept queues an accept; the outcome carries the peer descriptor.
func (r *Reactor) Accept(owner opstore.Owner, fd int) error {
	return r.push(&submission{
		kind:   opstore.Accept,
		owner:  owner,
		fd:     fd,
		rsa:    new(syscall.RawSockaddrAny),
		rsaLen: syscall.SizeofSockaddrAny,
	})
}

func (r *Reactor) Connect(owner opstore.Owner, fd int, rsa *syscall.RawSockaddrAny, rsaLen uint32) error {
	return r.push(&submission{kind: opstore.Connect, owner: owner, fd: fd, rsa: rsa, rsaLen: rsaLen})
}

func (r *Reactor) Poll(owner opstore.Owner, fd int, mask uint32) error {
	return r.push(&submission{kind: opstore.Poll, owner: owner, fd: fd, mask: mask})
}

func (r *Reactor) Timeout(owner opstore.Owner, d time.Duration) error {
	return r.push(&submission{
		kind:  opstore.Timeout,
		owner: owner,
		ts:    syscall.NsecToTimespec(d.Nanoseconds()),
	})
}
