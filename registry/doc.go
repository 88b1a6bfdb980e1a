// Package registry provides a handle table for dynamic sets of guarded
// values.
//
// The root owneddrop package covers values whose lifetime maps onto a
// lexical scope. Code that manages resources dynamically — sessions, cached
// connections, plugin instances — needs stable references instead, and this
// package supplies them as opaque handles over values implementing the
// OwnedDropper capability.
//
// # Lifecycle
//
// The GuardTable maps integer handles to owned values:
//
//	table := registry.NewTable()
//
//	// Insert a value, get a handle
//	handle, err := table.Insert(typeID, myValue)
//
//	// Retrieve the live value by handle
//	value, ok := table.Get(handle)
//
//	// Extract and consume: runs DropOwned exactly once
//	err = table.Remove(handle)
//
//	// Extract without consuming (ownership leaves the table)
//	value, err := table.Release(handle)
//
// Remove and Release both take the value out of its slot before anything
// else happens, so no path can act on it as live afterwards; Remove then
// invokes DropOwned on the extracted value.
//
// # Borrows
//
// Borrow marks a handle as referenced; a borrowed handle cannot be removed
// until every borrow is returned. This keeps reference-style access and
// owned extraction from overlapping.
//
// # Type Safety
//
// Handles are typed - each value type gets a caller-chosen type ID:
//
//	const SessionTypeID = 1
//	const ConnTypeID = 2
//
//	value, ok := table.GetTyped(handle, SessionTypeID)
//
// # Observers
//
// Subscribe receives Created, Dropped, Borrowed and BorrowReturned events.
// LogObserver forwards them to a zap logger. The metrics package provides a
// Prometheus-backed observer.
//
// Clear and Close drop remaining values in table order; no cross-value
// ordering is guaranteed.
package registry
