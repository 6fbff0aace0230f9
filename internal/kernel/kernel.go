// Package kernel orchestrates event dispatch, plugin hooks and log
// persistence for instrumented UI components.
//
// The kernel owns and exclusively mutates its event bus, log store and
// plugin registry; no external code touches them directly. Execution is
// fully synchronous: Emit performs bus dispatch, hook dispatch, formatting
// and persistence within the caller's turn, with no internal queuing.
//
// Correctness rests on fault isolation rather than locking: any subscriber,
// hook or plugin lifecycle callback that panics is recovered and logged
// without aborting the remainder of the current fan-out. Re-entrant Emit
// calls from within a handler are not guarded against and must be avoided
// by convention.
package kernel

import (
	"log/slog"

	"github.com/davenwood/prism/internal/bus"
	"github.com/davenwood/prism/internal/event"
	"github.com/davenwood/prism/internal/logstore"
	"github.com/davenwood/prism/internal/plugin"
)

// Kernel is the instrumentation core. Create one per integration boundary
// with New, pass it into adapters and consumers, and tear it down with
// Destroy; there is no ambient process-wide instance.
type Kernel struct {
	enabled  bool
	maxLogs  int
	logLevel event.Level

	bus      *bus.Bus
	store    *logstore.Store
	registry *plugin.Registry

	clock  Clock
	idgen  IDGenerator
	logger *slog.Logger
}

// New creates an enabled kernel with default capacity and a debug log level
// (everything persisted). The session start time is taken from the clock at
// construction.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		enabled:  true,
		maxLogs:  logstore.DefaultCapacity,
		logLevel: event.LevelDebug,
		clock:    SystemClock{},
		idgen:    UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(k)
	}

	k.bus = bus.New(k.logger)
	k.store = logstore.New(k.maxLogs, k.clock.Now())
	k.registry = plugin.NewRegistry(k.logger)
	k.registry.AttachHost(k)
	return k
}

// Configure merges the given options into the running kernel. Nil fields are
// left unchanged. Setting Enabled to false turns Emit into a true no-op: no
// bus dispatch, no plugin hooks, no storage.
func (k *Kernel) Configure(o Options) {
	if o.Enabled != nil {
		k.enabled = *o.Enabled
	}
	if o.MaxLogs > 0 {
		k.maxLogs = o.MaxLogs
		k.store.SetCapacity(o.MaxLogs)
	}
	if o.LogLevel != nil {
		k.logLevel = *o.LogLevel
	}
}

// Enabled reports whether the kernel is currently processing events.
func (k *Kernel) Enabled() bool {
	return k.enabled
}

// Emit runs one event through the pipeline: bus subscribers, plugin hooks,
// formatting, the level gate, persistence, then log fan-out. Malformed
// events are dropped with a logged warning.
//
// Events below the configured log level still reach bus subscribers and
// plugin hooks; they are only excluded from persistence and log fan-out.
func (k *Kernel) Emit(ev event.Event) {
	if !k.enabled {
		return
	}
	if err := ev.Validate(); err != nil {
		k.logger.Warn("dropping malformed event", "error", err)
		return
	}

	k.bus.Publish(ev)

	for _, p := range k.registry.WithHook(ev.Kind) {
		k.invokeHook(p, ev)
	}

	level := event.LevelFor(ev.Kind)
	if level < k.logLevel {
		return
	}

	ts := ev.Time
	if ts.IsZero() {
		ts = k.clock.Now()
	}
	entry := logstore.Entry{
		ID:            k.idgen.NewID(),
		Time:          ts,
		ComponentID:   ev.ComponentID,
		ComponentName: ev.ComponentName,
		Event:         ev,
		Level:         level,
		Message:       Describe(ev),
	}
	k.store.Append(entry)

	k.bus.PublishLog(entry)
	for _, p := range k.registry.WithLogHook() {
		k.invokeLogHook(p, entry)
	}
}

// invokeHook calls one plugin's per-kind hook with panic containment.
func (k *Kernel) invokeHook(p plugin.Plugin, ev event.Event) {
	defer func() {
		if r := recover(); r != nil {
			k.logger.Error("plugin hook panicked",
				"plugin", p.Name(),
				"operation", "hook",
				"kind", ev.Kind,
				"panic", r,
			)
		}
	}()
	p.Hooks().ForKind(ev.Kind)(ev)
}

// invokeLogHook calls one plugin's generic log hook with panic containment.
func (k *Kernel) invokeLogHook(p plugin.Plugin, entry logstore.Entry) {
	defer func() {
		if r := recover(); r != nil {
			k.logger.Error("plugin log hook panicked",
				"plugin", p.Name(),
				"operation", "log-hook",
				"kind", entry.Event.Kind,
				"panic", r,
			)
		}
	}()
	p.Hooks().Log(entry)
}

// Subscribe registers a bus handler for one event kind.
func (k *Kernel) Subscribe(kind event.Kind, h bus.Handler) func() {
	return k.bus.Subscribe(kind, h)
}

// SubscribeLogs registers a handler for every persisted log entry.
// Part of the plugin.Host surface.
func (k *Kernel) SubscribeLogs(h func(logstore.Entry)) func() {
	return k.bus.SubscribeLogs(h)
}

// Logs returns a point-in-time copy of the log store state.
func (k *Kernel) Logs() logstore.Snapshot {
	return k.store.Snapshot()
}

// FilterLogs queries the log store.
func (k *Kernel) FilterLogs(f logstore.Filter) []logstore.Entry {
	return k.store.Query(f)
}

// ClearLogs empties the log store; the session start time is preserved.
func (k *Kernel) ClearLogs() {
	k.store.Clear()
}

// Register adds a plugin to the registry, supplying this kernel as the host.
func (k *Kernel) Register(p plugin.Plugin) error {
	return k.registry.Register(p)
}

// Unregister uninstalls and removes a plugin. Unknown names are a no-op.
func (k *Kernel) Unregister(name string) {
	k.registry.Unregister(name)
}

// EnablePlugin re-installs a disabled plugin.
func (k *Kernel) EnablePlugin(name string) {
	k.registry.Enable(name)
}

// DisablePlugin uninstalls a plugin without removing it.
func (k *Kernel) DisablePlugin(name string) {
	k.registry.Disable(name)
}

// GetPlugin returns a registered plugin by name.
func (k *Kernel) GetPlugin(name string) (plugin.Plugin, bool) {
	return k.registry.Get(name)
}

// ListPlugins returns plugin infos in registration order.
func (k *Kernel) ListPlugins() []plugin.Info {
	return k.registry.List()
}

// Registry exposes the plugin registry for tests and tooling.
func (k *Kernel) Registry() *plugin.Registry {
	return k.registry
}

// Destroy disables the kernel, uninstalls every plugin and drops all bus
// subscriptions. Idempotent.
func (k *Kernel) Destroy() {
	k.enabled = false
	k.registry.Clear()
	k.bus.ClearAll()
}
