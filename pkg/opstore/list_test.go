package opstore

import (
	"math/rand"
	"testing"
)

// walk traverses a list forward then backward and checks the links agree.
func walk(t *testing.T, store *Store, head int32) (slots []int32) {
	seen := make(map[int32]struct{})
	prev := noSlot
	for slot := head; slot != noSlot; slot = store.arena[slot].next {
		if _, dup := seen[slot]; dup {
			t.Fatal("list has a cycle at slot", slot)
		}
		seen[slot] = struct{}{}
		if store.arena[slot].prev != prev {
			t.Fatal("back-link broken at slot", slot)
		}
		prev = slot
		slots = append(slots, slot)
	}
	for i := len(slots) - 1; i > 0; i-- {
		if store.arena[slots[i]].prev != slots[i-1] {
			t.Fatal("backward traversal mismatched at slot", slots[i])
		}
	}
	return
}

func checkPartition(t *testing.T, store *Store) {
	taken := walk(t, store, store.taken)
	available := walk(t, store, store.available)
	if len(taken)+len(available) != len(store.arena) {
		t.Fatal("partition broken:", len(taken), len(available), len(store.arena))
	}
	for _, slot := range taken {
		if store.arena[slot].list != listTaken {
			t.Fatal("slot on taken list is not tagged taken:", slot)
		}
	}
	for _, slot := range available {
		if store.arena[slot].list != listAvailable {
			t.Fatal("slot on available list is not tagged available:", slot)
		}
	}
}

func TestListPartition(t *testing.T) {
	store := NewStore()
	rng := rand.New(rand.NewSource(1))

	live := make([]*Context, 0, 64)
	for i := 0; i < 4096; i++ {
		if len(live) == 0 || rng.Intn(3) != 0 {
			live = append(live, store.Acquire(Kind(rng.Intn(9)), nil))
		} else {
			j := rng.Intn(len(live))
			store.Release(live[j])
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		}
		checkPartition(t, store)
	}
	t.Log("arena size:", store.Size(), "taken:", store.TakenLen(), "available:", store.AvailableLen())
	if store.TakenLen() != len(live) {
		t.Fatal("taken len:", store.TakenLen(), "live:", len(live))
	}
}
