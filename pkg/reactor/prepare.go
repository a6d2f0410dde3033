//go:build linux

package reactor

import (
	"runtime"
	"syscall"
	"unsafe"

	"github.com/brickingsoft/opc/pkg/opstore"
	"github.com/pawelgaczynski/giouring"
)

// prepareSQE packs one submission into an SQE. The context id rides in
// the userdata so the completion can be matched back without handing the
// kernel a pointer.
func prepareSQE(sqe *giouring.SubmissionQueueEntry, sub *submission, id uint64) {
	var b uintptr
	if len(sub.b) > 0 {
		b = uintptr(unsafe.Pointer(&sub.b[0]))
	}
	switch sub.kind {
	case opstore.Read:
		sqe.PrepareRead(sub.fd, b, uint32(len(sub.b)), 0)
		break
	case opstore.Write:
		sqe.PrepareWrite(sub.fd, b, uint32(len(sub.b)), 0)
		break
	case opstore.Writev:
		var iov uintptr
		if len(sub.iov) > 0 {
			iov = uintptr(unsafe.Pointer(&sub.iov[0]))
		}
		sqe.PrepareWritev(sub.fd, iov, uint32(len(sub.iov)), 0)
		break
	case opstore.Recv:
		sqe.PrepareRecv(sub.fd, b, uint32(len(sub.b)), 0)
		break
	case opstore.Send:
		sqe.PrepareSend(sub.fd, b, uint32(len(sub.b)), 0)
		break
	case opstore.Accept:
		addrPtr := uintptr(unsafe.Pointer(sub.rsa))
		addrLenPtr := uint64(uintptr(unsafe.Pointer(&sub.rsaLen)))
		sqe.PrepareAccept(sub.fd, addrPtr, addrLenPtr, 0)
		break
	case opstore.Connect:
		sqe.PrepareConnect(sub.fd, (*syscall.Sockaddr)(unsafe.Pointer(sub.rsa)), uint64(sub.rsaLen))
		break
	case opstore.Poll:
		sqe.PreparePollAdd(sub.fd, sub.mask)
		break
	case opstore.Timeout:
		sqe.PrepareTimeout(&sub.ts, 0, 0)
		break
	default:
		sqe.PrepareNop()
		break
	}
	sqe.UserData = id
	runtime.KeepAlive(sqe)
	return
}
