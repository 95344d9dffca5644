package engine

import (
	"sync"
)

// Handle is an opaque reference to an engine-owned object.
// Handle 0 is reserved and always invalid.
//
// A handle packs a slot index in the low 32 bits and the slot's
// generation in the high 32 bits. Slot reuse bumps the generation, so a
// handle to released storage can never resolve again: stale handles
// are detected, not dereferenced.
type Handle uint64

// Type IDs for the object families the engine allocates.
const (
	typeValue uint32 = iota + 1
	typeAddress
	typeConfig
	typeTrust
	typeConnector
)

type entry struct {
	value any
	// ownedBy is the root handle this entry belongs to, for interior
	// value slots and trusts moved into a config. Owned entries cannot
	// be destroyed independently.
	ownedBy Handle
	typeID  uint32
	gen     uint32
	valid   bool
}

// handleTable is the engine's in-memory object store: dense entries,
// a free list, and per-slot generations.
type handleTable struct {
	entries  []entry
	freeList []uint32
	mu       sync.Mutex
}

func newHandleTable() *handleTable {
	return &handleTable{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

func packHandle(idx, gen uint32) Handle {
	return Handle(gen)<<32 | Handle(idx+1)
}

func splitHandle(h Handle) (idx, gen uint32, ok bool) {
	lo := uint32(h)
	if lo == 0 {
		return 0, 0, false
	}
	return lo - 1, uint32(h >> 32), true
}

// create stores a value and returns its handle.
func (t *handleTable) create(typeID uint32, value any) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.freeList) > 0 {
		idx := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		e := &t.entries[idx]
		e.value = value
		e.typeID = typeID
		e.ownedBy = 0
		e.valid = true
		return packHandle(idx, e.gen)
	}

	t.entries = append(t.entries, entry{
		value:  value,
		typeID: typeID,
		valid:  true,
	})
	return packHandle(uint32(len(t.entries)-1), 0)
}

// get resolves a handle against the expected type ID.
func (t *handleTable) get(h Handle, typeID uint32) (any, bool) {
	idx, gen, ok := splitHandle(h)
	if !ok {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := t.entries[idx]
	if !e.valid || e.gen != gen || e.typeID != typeID {
		return nil, false
	}
	return e.value, true
}

// owner reports who owns an entry (0 for independent roots).
func (t *handleTable) owner(h Handle) (Handle, bool) {
	idx, gen, ok := splitHandle(h)
	if !ok {
		return 0, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) >= len(t.entries) {
		return 0, false
	}
	e := t.entries[idx]
	if !e.valid || e.gen != gen {
		return 0, false
	}
	return e.ownedBy, true
}

// adopt marks child as owned by owner. An owned entry refuses destroy.
func (t *handleTable) adopt(child, owner Handle) bool {
	idx, gen, ok := splitHandle(child)
	if !ok {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) >= len(t.entries) {
		return false
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != gen {
		return false
	}
	e.ownedBy = owner
	return true
}

// destroy invalidates a root entry and returns its value. Owned entries
// and stale handles return (nil, false); the caller decides whether that
// is a contract violation.
func (t *handleTable) destroy(h Handle) (any, bool) {
	idx, gen, ok := splitHandle(h)
	if !ok {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != gen || e.ownedBy != 0 {
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.gen++ // stale handles stop resolving from here on
	t.freeList = append(t.freeList, idx)
	return value, true
}

// destroyOwned invalidates an owned entry on behalf of its owner.
func (t *handleTable) destroyOwned(h, owner Handle) (any, bool) {
	idx, gen, ok := splitHandle(h)
	if !ok {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != gen || e.ownedBy != owner {
		return nil, false
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.ownedBy = 0
	e.gen++
	t.freeList = append(t.freeList, idx)
	return value, true
}

// live returns the number of valid entries.
func (t *handleTable) live() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}
