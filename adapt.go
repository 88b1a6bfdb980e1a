package owneddrop

import (
	"io"

	"go.uber.org/zap"
)

// FuncDropper pairs a value with a consuming function, for callers that do
// not control the value's type and cannot declare DropOwned on it.
type FuncDropper[T any] struct {
	// Value is the wrapped value. Mutations through Guard.Value are visible
	// to the drop function.
	Value T

	drop func(T)
}

// Func wraps value and a consuming function as an OwnedDropper.
func Func[T any](value T, drop func(T)) FuncDropper[T] {
	return FuncDropper[T]{Value: value, drop: drop}
}

// DropOwned implements the OwnedDropper interface.
func (d FuncDropper[T]) DropOwned() {
	if d.drop != nil {
		d.drop(d.Value)
	}
}

// CloserDropper adapts an existing io.Closer to the OwnedDropper capability.
// Close errors have nowhere to go on the drop path, so they are logged
// through the package logger.
type CloserDropper struct {
	C io.Closer
}

// FromCloser wraps c as an OwnedDropper.
func FromCloser(c io.Closer) CloserDropper {
	return CloserDropper{C: c}
}

// DropOwned implements the OwnedDropper interface.
func (d CloserDropper) DropOwned() {
	if d.C == nil {
		return
	}
	if err := d.C.Close(); err != nil {
		Logger().Warn("close during owned drop failed", zap.Error(err))
	}
}
