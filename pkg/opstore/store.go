package opstore

import (
	"github.com/brickingsoft/errors"
)

var (
	ErrReleasedTwice = errors.Define("opstore: context released twice")
	ErrForeign       = errors.Define("opstore: context is not owned by store")
)

func NewStore() *Store {
	store := &Store{}
	store.Reset()
	return store
}

// Store is a fixed-identity free-list allocator over Context records.
// Every record lives in the arena and belongs to exactly one of the two
// intrusive lists. Not safe for concurrent use, the store belongs to the
// one control goroutine driving the event loop.
type Store struct {
	lastID    uint64
	arena     []*Context
	available int32
	taken     int32
}

// Reset drops the identifier counter and both lists. Must not be called
// while any context is still referenced by a pending operation.
func (store *Store) Reset() {
	store.lastID = 0
	store.arena = nil
	store.available = noSlot
	store.taken = noSlot
	return
}

// Acquire returns a taken context bound to owner, ready for a new
// operation of the given kind. The free head is reused when present,
// otherwise the arena grows by one record. Ids are strictly increasing
// for the life of the store, storage is reused but identity never is.
func (store *Store) Acquire(kind Kind, owner Owner) (ctx *Context) {
	if store.available != noSlot {
		ctx = store.arena[store.available]
		store.available = ctx.next
		if ctx.next != noSlot {
			store.arena[ctx.next].prev = noSlot
		}
	} else {
		ctx = &Context{slot: int32(len(store.arena))}
		store.arena = append(store.arena, ctx)
	}
	store.lastID++
	ctx.id = store.lastID

	ctx.prev = noSlot
	ctx.next = store.taken
	if store.taken != noSlot {
		store.arena[store.taken].prev = ctx.slot
	}
	store.taken = ctx.slot
	ctx.list = listTaken

	ctx.kind = kind
	ctx.owner = owner
	ctx.resumeValue = nil
	ctx.completed = false
	ctx.result = 0
	return
}

// Release returns ctx to the free list. The caller must not use ctx
// afterwards except via a fresh Acquire. Releasing a context twice, or
// one owned by another store, fails fast rather than corrupting the
// lists.
func (store *Store) Release(ctx *Context) {
	if ctx == nil || int(ctx.slot) >= len(store.arena) || store.arena[ctx.slot] != ctx {
		panic(ErrForeign)
	}
	if ctx.list != listTaken {
		panic(ErrReleasedTwice)
	}
	if ctx.next != noSlot {
		store.arena[ctx.next].prev = ctx.prev
	}
	if ctx.prev != noSlot {
		store.arena[ctx.prev].next = ctx.next
	}
	if store.taken == ctx.slot {
		store.taken = ctx.next
	}

	ctx.prev = noSlot
	ctx.next = store.available
	if ctx.next != noSlot {
		store.arena[ctx.next].prev = ctx.slot
	}
	store.available = ctx.slot
	ctx.list = listAvailable

	ctx.owner = nil
	ctx.resumeValue = nil
	return
}

// Close makes every record unreachable from both lists. Must not be
// called while any context is still referenced by a pending operation.
func (store *Store) Close() {
	for _, ctx := range store.arena {
		ctx.prev = noSlot
		ctx.next = noSlot
		ctx.list = listNone
		ctx.owner = nil
		ctx.resumeValue = nil
	}
	store.arena = nil
	store.available = noSlot
	store.taken = noSlot
	return
}

// Size is the number of records the arena holds, taken and available.
func (store *Store) Size() int {
	return len(store.arena)
}

func (store *Store) TakenLen() (n int) {
	for slot := store.taken; slot != noSlot; slot = store.arena[slot].next {
		n++
	}
	return
}

func (store *Store) AvailableLen() (n int) {
	for slot := store.available; slot != noSlot; slot = store.arena[slot].next {
		n++
	}
	return
}
