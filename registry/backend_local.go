package registry

import (
	"sync"

	owneddrop "github.com/wippyai/owned-drop"
	"github.com/wippyai/owned-drop/errors"
)

// LocalBackend is an in-memory backend with borrow tracking.
type LocalBackend struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value       owneddrop.OwnedDropper
	typeID      uint32
	borrowCount uint32
	valid       bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Create stores a value and returns a handle.
func (b *LocalBackend) Create(typeID uint32, value owneddrop.OwnedDropper) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errors.Closed(errors.PhaseRegistry, "create")
	}

	e := entry{
		typeID: typeID,
		value:  value,
		valid:  true,
	}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// Get retrieves the live value by handle.
func (b *LocalBackend) Get(handle Handle) (owneddrop.OwnedDropper, bool) {
	if handle == 0 {
		return nil, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return nil, false
	}

	e := b.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e.value, true
}

// TypeID returns the type ID recorded for a handle.
func (b *LocalBackend) TypeID(handle Handle) (uint32, bool) {
	if handle == 0 {
		return 0, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return 0, false
	}

	e := b.entries[idx]
	if !e.valid {
		return 0, false
	}
	return e.typeID, true
}

// Take extracts the value without invoking DropOwned. The slot is marked
// dead before the value escapes the lock, so no other path can observe it
// as live afterwards.
func (b *LocalBackend) Take(handle Handle) (owneddrop.OwnedDropper, error) {
	if handle == 0 {
		return nil, errors.InvalidHandle(errors.PhaseRegistry, uint32(handle))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errors.Closed(errors.PhaseRegistry, "take")
	}

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return nil, errors.NotFound(errors.PhaseRegistry, uint32(handle))
	}

	e := &b.entries[idx]
	if !e.valid {
		return nil, errors.NotFound(errors.PhaseRegistry, uint32(handle))
	}

	if e.borrowCount > 0 {
		return nil, errors.Borrowed(errors.PhaseRegistry, uint32(handle), e.borrowCount)
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.borrowCount = 0
	b.freeList = append(b.freeList, handle)

	return value, nil
}

// Borrow increments the borrow count for a handle.
func (b *LocalBackend) Borrow(handle Handle) bool {
	if handle == 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return false
	}

	e := &b.entries[idx]
	if !e.valid {
		return false
	}

	e.borrowCount++
	return true
}

// ReturnBorrow decrements the borrow count for a handle.
func (b *LocalBackend) ReturnBorrow(handle Handle) bool {
	if handle == 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(b.entries) {
		return false
	}

	e := &b.entries[idx]
	if !e.valid || e.borrowCount == 0 {
		return false
	}

	e.borrowCount--
	return true
}

// Len returns the number of live entries.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for i := range b.entries {
		if b.entries[i].valid {
			n++
		}
	}
	return n
}

// Each iterates over live entries until fn returns false.
func (b *LocalBackend) Each(fn func(Handle, uint32, owneddrop.OwnedDropper) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i := range b.entries {
		if !b.entries[i].valid {
			continue
		}
		if !fn(Handle(i+1), b.entries[i].typeID, b.entries[i].value) {
			return
		}
	}
}

// Close extracts and consumes all remaining values. Each slot is marked
// dead before its DropOwned runs, so a panicking drop cannot cause a later
// close attempt to consume the same value twice. Values are visited in
// table order; no cross-value ordering is guaranteed.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for i := range b.entries {
		if b.entries[i].valid {
			value := b.entries[i].value
			b.entries[i].valid = false
			b.entries[i].value = nil
			value.DropOwned()
		}
	}

	b.entries = nil
	b.freeList = nil
	return nil
}
