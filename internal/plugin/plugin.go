// Package plugin implements the plugin contract and registry.
//
// A plugin is an installable unit exposing optional per-kind lifecycle hooks
// and an arbitrary API surface. The registry owns the lifecycle:
// register (validate, store, enable, install), enable/disable
// (install/uninstall without removal), unregister (uninstall and remove).
//
// Fault isolation is the registry's core guarantee: a plugin whose install,
// uninstall or hook fails (error or panic) never aborts the operation being
// performed for the other plugins. Registration errors, by contrast, are
// raised synchronously to the caller before any side effect occurs.
package plugin

import (
	"github.com/davenwood/prism/internal/event"
	"github.com/davenwood/prism/internal/logstore"
)

// Type classifies a plugin.
type Type string

const (
	// TypeCore marks plugins the surrounding tooling considers essential.
	TypeCore Type = "core"
	// TypeOptional marks user-supplied plugins.
	TypeOptional Type = "optional"
)

// Valid reports whether t is a known plugin type.
func (t Type) Valid() bool {
	return t == TypeCore || t == TypeOptional
}

// Host is the kernel surface handed to plugins at install time.
// Implemented by kernel.Kernel.
type Host interface {
	// Emit injects an event into the kernel pipeline.
	Emit(ev event.Event)
	// Logs returns a point-in-time copy of the log store state.
	Logs() logstore.Snapshot
	// FilterLogs queries the log store.
	FilterLogs(f logstore.Filter) []logstore.Entry
	// SubscribeLogs registers a log subscriber; the returned closure
	// unsubscribes and is idempotent.
	SubscribeLogs(h func(logstore.Entry)) func()
}

// Hooks is the sparse capability record of a plugin: one optional callback
// per event kind plus a generic callback for every persisted log entry.
// Nil fields mean the plugin does not observe that kind.
type Hooks struct {
	Mount         func(event.Event)
	Unmount       func(event.Event)
	Update        func(event.Event)
	PropsChange   func(event.Event)
	StateChange   func(event.Event)
	EffectRun     func(event.Event)
	EffectCleanup func(event.Event)
	ContextChange func(event.Event)
	Error         func(event.Event)

	Log func(logstore.Entry)
}

// ForKind returns the hook for an event kind, or nil. Dispatch goes through
// this typed table; there is no dynamic capability probing.
func (h Hooks) ForKind(k event.Kind) func(event.Event) {
	switch k {
	case event.KindMount:
		return h.Mount
	case event.KindUnmount:
		return h.Unmount
	case event.KindUpdate:
		return h.Update
	case event.KindPropsChange:
		return h.PropsChange
	case event.KindStateChange:
		return h.StateChange
	case event.KindEffectRun:
		return h.EffectRun
	case event.KindEffectCleanup:
		return h.EffectCleanup
	case event.KindContextChange:
		return h.ContextChange
	case event.KindError:
		return h.Error
	default:
		return nil
	}
}

// Plugin is the contract every installable unit satisfies.
//
// Name must be unique within a registry and stable for the plugin's lifetime.
// Install is called when the plugin is enabled with a host attached;
// Uninstall when it is disabled, unregistered, or the registry is cleared.
// Hooks may be called once per dispatch; implementations should return a
// fixed record.
type Plugin interface {
	Name() string
	Version() string
	Type() Type
	Install(host Host) error
	Uninstall() error
	Hooks() Hooks
}

// Info is the read-only listing shape for a registered plugin.
type Info struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Type    Type   `json:"type" yaml:"type"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}
