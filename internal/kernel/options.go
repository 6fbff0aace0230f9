package kernel

import (
	"log/slog"

	"github.com/davenwood/prism/internal/event"
)

// Option configures a Kernel at construction time.
type Option func(*Kernel)

// WithMaxLogs bounds the log store. Non-positive values keep the default.
func WithMaxLogs(n int) Option {
	return func(k *Kernel) {
		if n > 0 {
			k.maxLogs = n
		}
	}
}

// WithLogLevel sets the minimum level an entry must meet to be persisted.
// Events below the level still reach bus subscribers and plugin hooks.
func WithLogLevel(l event.Level) Option {
	return func(k *Kernel) {
		k.logLevel = l
	}
}

// WithDisabled constructs the kernel disabled; Emit is a no-op until
// Configure re-enables it.
func WithDisabled() Option {
	return func(k *Kernel) {
		k.enabled = false
	}
}

// WithClock replaces the wall clock. Used by tests and capture replay.
func WithClock(c Clock) Option {
	return func(k *Kernel) {
		if c != nil {
			k.clock = c
		}
	}
}

// WithIDGenerator replaces the entry id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(k *Kernel) {
		if g != nil {
			k.idgen = g
		}
	}
}

// WithLogger sets the diagnostic logger used for recovered faults.
func WithLogger(l *slog.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.logger = l
		}
	}
}

// Options is the runtime configuration surface. Nil fields are left
// unchanged by Configure, mirroring a partial options merge.
type Options struct {
	Enabled  *bool
	MaxLogs  int // 0 leaves the capacity unchanged
	LogLevel *event.Level
}

// Enabled returns a pointer for Options.Enabled.
func Enabled(v bool) *bool { return &v }

// Level returns a pointer for Options.LogLevel.
func Level(l event.Level) *event.Level { return &l }
