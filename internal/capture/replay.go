package capture

import (
	"github.com/davenwood/prism/internal/event"
)

// Emitter accepts lifecycle events. *kernel.Kernel satisfies it.
type Emitter interface {
	Emit(ev event.Event)
}

// Replay feeds the capture's events into the sink in recorded order and
// returns how many were emitted. Events keep their recorded timestamps, so
// a replayed session reconstructs the original timeline rather than the
// replay wall clock.
func Replay(c *Capture, sink Emitter) int {
	for _, ev := range c.Events {
		sink.Emit(ev)
	}
	return len(c.Events)
}
