package opstore

import (
	"github.com/brickingsoft/errors"
)

var (
	ErrCompletedTwice = errors.Define("opstore: context completed twice")
	ErrNotTaken       = errors.Define("opstore: context is not taken")
)

const noSlot = int32(-1)

// Owner is the execution unit that initiated an operation and must be
// resumed when its completion arrives. The store never controls the
// owner's lifetime, it only records which unit to wake.
type Owner interface {
	Resume(v any)
}

type listTag uint8

const (
	listNone listTag = iota
	listAvailable
	listTaken
)

// Context correlates one in-flight operation with its identifier, kind,
// owner and eventual result. Contexts are owned by a Store arena and
// cycle between its available and taken lists, they are never freed
// individually. The link slots hold arena indexes, not pointers.
type Context struct {
	id          uint64
	kind        Kind
	owner       Owner
	resumeValue any
	completed   bool
	result      int
	slot        int32
	prev        int32
	next        int32
	list        listTag
}

func (ctx *Context) ID() uint64 {
	return ctx.id
}

func (ctx *Context) Kind() Kind {
	return ctx.kind
}

func (ctx *Context) Owner() Owner {
	return ctx.owner
}

func (ctx *Context) Completed() bool {
	return ctx.completed
}

// Result is the raw completion value. Undefined before Completed reports true.
func (ctx *Context) Result() int {
	return ctx.result
}

func (ctx *Context) ResumeValue() any {
	return ctx.resumeValue
}

func (ctx *Context) SetResumeValue(v any) {
	ctx.resumeValue = v
}

// Complete records the raw outcome of the operation. It must be called
// exactly once, on a taken context.
func (ctx *Context) Complete(result int) {
	if ctx.list != listTaken {
		panic(ErrNotTaken)
	}
	if ctx.completed {
		panic(ErrCompletedTwice)
	}
	ctx.completed = true
	ctx.result = result
	return
}

// Outcome is the typed view of the raw result, keyed by the context's kind.
func (ctx *Context) Outcome() Outcome {
	return Outcome{Kind: ctx.kind, Result: ctx.result}
}
