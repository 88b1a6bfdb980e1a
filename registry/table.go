package registry

import (
	"sync"

	owneddrop "github.com/wippyai/owned-drop"
	"github.com/wippyai/owned-drop/errors"
)

// GuardTable implements the Table interface using a Backend for storage.
type GuardTable struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new guard table with a LocalBackend.
func NewTable() *GuardTable {
	return &GuardTable{
		backend: NewLocalBackend(),
	}
}

// Insert adds a value and returns its handle.
func (t *GuardTable) Insert(typeID uint32, value owneddrop.OwnedDropper) (Handle, error) {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0, errors.Closed(errors.PhaseRegistry, "insert")
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0, err
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return handle, nil
}

// Get retrieves the live value by handle.
func (t *GuardTable) Get(handle Handle) (owneddrop.OwnedDropper, bool) {
	return t.backend.Get(handle)
}

// GetTyped retrieves the value only if it matches the expected type.
func (t *GuardTable) GetTyped(handle Handle, typeID uint32) (owneddrop.OwnedDropper, bool) {
	actualTypeID, ok := t.backend.TypeID(handle)
	if !ok || actualTypeID != typeID {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Remove extracts the value and invokes DropOwned on it exactly once. The
// slot is dead before the callback runs; a panicking DropOwned propagates
// after the extraction is already final.
func (t *GuardTable) Remove(handle Handle) error {
	typeID, _ := t.backend.TypeID(handle)
	value, err := t.backend.Take(handle)
	if err != nil {
		return err
	}

	defer t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	value.DropOwned()
	return nil
}

// Release extracts the value without invoking DropOwned. Ownership passes
// to the caller; the table reports the handle as dropped.
func (t *GuardTable) Release(handle Handle) (owneddrop.OwnedDropper, error) {
	typeID, _ := t.backend.TypeID(handle)
	value, err := t.backend.Take(handle)
	if err != nil {
		return nil, err
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})

	return value, nil
}

// Borrow marks a handle as referenced, blocking removal until returned.
func (t *GuardTable) Borrow(handle Handle) bool {
	if !t.backend.Borrow(handle) {
		return false
	}
	typeID, _ := t.backend.TypeID(handle)
	t.notify(Event{
		Type:   EventBorrowed,
		Handle: handle,
		TypeID: typeID,
	})
	return true
}

// ReturnBorrow releases a borrow.
func (t *GuardTable) ReturnBorrow(handle Handle) bool {
	if !t.backend.ReturnBorrow(handle) {
		return false
	}
	typeID, _ := t.backend.TypeID(handle)
	t.notify(Event{
		Type:   EventBorrowReturned,
		Handle: handle,
		TypeID: typeID,
	})
	return true
}

// Subscribe adds an observer for lifecycle events.
func (t *GuardTable) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *GuardTable) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live values.
func (t *GuardTable) Len() int {
	return t.backend.Len()
}

// Clear drops all values in table order. No cross-value ordering is
// guaranteed. Borrowed handles survive a Clear.
func (t *GuardTable) Clear() {
	// Collect handles first to avoid holding the backend lock during Remove
	var handles []Handle
	t.backend.Each(func(h Handle, typeID uint32, value owneddrop.OwnedDropper) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		_ = t.Remove(h)
	}
}

// Close drops all remaining values and stops accepting operations.
// Close-dropped values do not produce Dropped events; subscribe before
// closing if the trailing drops matter.
func (t *GuardTable) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

func (t *GuardTable) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnGuardEvent(e)
	}
}
