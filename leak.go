package owneddrop

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/owned-drop/internal/xruntime"
)

// dropFlag records whether a guard's value was ever taken. It is allocated
// separately from the guard so the runtime cleanup attached to the guard can
// hold it without keeping the guard reachable.
type dropFlag struct {
	dropped  atomic.Bool
	typeName string
}

func (f *dropFlag) mark() {
	f.dropped.Store(true)
}

// report logs a leak if the guard became unreachable without Drop or
// IntoInner. It never runs the consuming operation itself: by the time the
// cleanup fires, the scope that owned the value is long gone, and running
// user cleanup at GC time would break the only-at-scope-exit contract.
func (f *dropFlag) report() {
	if f.dropped.Load() {
		return
	}
	Logger().Warn("guard became unreachable without drop",
		zap.String("type", f.typeName))
}

// NewChecked creates a guard like New and additionally attaches a runtime
// cleanup that reports, through the package logger, a guard collected
// without ever being dropped. The report is diagnostic only; the value is
// still leaked.
func NewChecked[T OwnedDropper](value T) *Guard[T] {
	g := New(value)
	g.flag = &dropFlag{typeName: fmt.Sprintf("%T", value)}
	xruntime.AddCleanup(g, (*dropFlag).report, g.flag)
	return g
}
