// Package owneddrop provides scope-exit cleanup that receives the cleaned-up
// value by ownership instead of by reference.
//
// Go's teardown conventions (defer + Close, finalizers) hand cleanup code a
// pointer to the value being torn down, never the value itself. Cleanup logic
// that wants to consume its subject — move a slice into a sink, hand a
// connection to a pool, close a runtime through a by-value API — is forced
// into a defensive copy. This package closes that gap with a guard that takes
// ownership of a value at construction and forwards it, exactly once, to a
// consuming callback when the guard is dropped.
//
// # Architecture Overview
//
// The repository is organized into a small core plus supporting packages:
//
//	owneddrop/           Root package: OwnedDropper capability and Guard
//	├── registry/        Handle table for dynamic sets of guarded values
//	├── errors/          Structured error types for registry operations
//	├── metrics/         Prometheus observer over registry lifecycle events
//	├── cmd/guardmon/    CLI and interactive inspector for a live registry
//	└── examples/        Runnable examples
//
// # Quick Start
//
// Implement DropOwned on the value type, then guard it:
//
//	type Upload struct {
//	    Lines []string
//	    Sink  func([]string)
//	}
//
//	func (u Upload) DropOwned() { u.Sink(u.Lines) }
//
//	func process(sink func([]string)) {
//	    g := owneddrop.New(Upload{Lines: []string{"a", "b"}, Sink: sink})
//	    defer g.Drop()
//
//	    g.Value().Lines = append(g.Value().Lines, "c")
//	    // ... on every return path, Drop hands the Upload to its sink once
//	}
//
// Or let Scoped manage the guard's lifetime:
//
//	owneddrop.Scoped(Upload{Lines: lines, Sink: sink}, func(u *Upload) {
//	    u.Lines = append(u.Lines, "c")
//	})
//
// # Guarantees
//
// The consuming callback runs at most once per guard, and the guard's slot is
// marked taken before the callback is entered, so a panic inside the callback
// cannot cause a later drop attempt to run it again. After Drop or IntoInner,
// the slot is zeroed; no path in the package can observe the value as live a
// second time. Panics raised by the callback propagate unmodified to whatever
// triggered the drop.
//
// # Managing Many Values
//
// The registry package holds guarded values behind opaque handles, with
// borrow tracking and lifecycle observers, for code whose resources do not
// map onto lexical scopes. See the registry package documentation.
package owneddrop
