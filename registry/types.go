package registry

import (
	owneddrop "github.com/wippyai/owned-drop"
)

// Handle is an opaque reference to a guarded value in a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for guard lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventBorrowed
	EventBorrowReturned
)

// String returns the event type name used in logs and metrics labels.
func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow_returned"
	default:
		return "unknown"
	}
}

// Event represents a guard lifecycle event.
type Event struct {
	Value  owneddrop.OwnedDropper
	Handle Handle
	TypeID uint32
	Type   EventType
}

// Observer receives notifications about guard lifecycle events.
type Observer interface {
	OnGuardEvent(Event)
}

// Backend provides the underlying storage mechanism for guarded values.
type Backend interface {
	// Create stores a value and returns a handle.
	Create(typeID uint32, value owneddrop.OwnedDropper) (Handle, error)

	// Get retrieves the live value by handle.
	Get(handle Handle) (owneddrop.OwnedDropper, bool)

	// TypeID returns the type ID recorded for a handle.
	TypeID(handle Handle) (uint32, bool)

	// Take extracts the value, marking the slot dead before the value
	// escapes. It does not invoke DropOwned. Fails on the reserved handle,
	// a dead slot, outstanding borrows, or a closed backend.
	Take(handle Handle) (owneddrop.OwnedDropper, error)

	// Borrow increments the borrow count for a handle.
	Borrow(handle Handle) bool

	// ReturnBorrow decrements the borrow count for a handle.
	ReturnBorrow(handle Handle) bool

	// Len returns the number of live entries.
	Len() int

	// Each iterates over live entries until fn returns false.
	Each(fn func(Handle, uint32, owneddrop.OwnedDropper) bool)

	// Close extracts and consumes all remaining values.
	Close() error
}

// Table manages guarded values with type information and observer support.
type Table interface {
	// Insert adds a value and returns its handle.
	Insert(typeID uint32, value owneddrop.OwnedDropper) (Handle, error)

	// Get retrieves the live value by handle.
	Get(handle Handle) (owneddrop.OwnedDropper, bool)

	// GetTyped retrieves the value only if it matches the expected type.
	GetTyped(handle Handle, typeID uint32) (owneddrop.OwnedDropper, bool)

	// Remove extracts the value and invokes DropOwned on it exactly once.
	Remove(handle Handle) error

	// Release extracts the value without invoking DropOwned; ownership
	// passes to the caller.
	Release(handle Handle) (owneddrop.OwnedDropper, error)

	// Borrow marks a handle as referenced, blocking removal.
	Borrow(handle Handle) bool

	// ReturnBorrow releases a borrow.
	ReturnBorrow(handle Handle) bool

	// Subscribe adds an observer for lifecycle events.
	Subscribe(Observer)

	// Unsubscribe removes an observer.
	Unsubscribe(Observer)

	// Len returns the number of live values.
	Len() int

	// Clear drops all values.
	Clear()

	// Close drops all values and stops accepting operations.
	Close() error
}
