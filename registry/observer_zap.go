package registry

import (
	"go.uber.org/zap"
)

// LogObserver forwards lifecycle events to a zap logger at debug level.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an observer logging to log. A nil logger falls
// back to a no-op.
func NewLogObserver(log *zap.Logger) *LogObserver {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogObserver{log: log}
}

// OnGuardEvent implements the Observer interface.
func (o *LogObserver) OnGuardEvent(e Event) {
	o.log.Debug("guard event",
		zap.String("event", e.Type.String()),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Uint32("type_id", e.TypeID),
	)
}
