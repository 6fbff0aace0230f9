package plugin

import (
	"fmt"
	"log/slog"

	"github.com/davenwood/prism/internal/event"
)

// Registry stores plugins by name and tracks which are enabled.
//
// Registration always succeeds once validation passes; activation may not.
// A plugin whose Install fails stays registered but disabled, so the caller
// can inspect, fix and re-enable it without re-registering.
//
// The registry is not internally locked; it inherits the kernel's
// single-writer discipline.
type Registry struct {
	plugins map[string]Plugin
	order   []string
	enabled map[string]bool
	host    Host
	logger  *slog.Logger
}

// NewRegistry creates an empty registry. Activation faults are reported
// through logger; pass nil to use slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		plugins: make(map[string]Plugin),
		enabled: make(map[string]bool),
		logger:  logger,
	}
}

// AttachHost supplies the kernel handle passed to Install. Plugins registered
// before a host is attached are installed lazily when they are next enabled.
func (r *Registry) AttachHost(h Host) {
	r.host = h
}

// Register validates and stores the plugin, marked enabled. If a host is
// attached the plugin is installed immediately; an install failure is logged
// and leaves the plugin registered but disabled.
//
// A duplicate name or malformed plugin fails with a *RegistryError before
// any side effect occurs.
func (r *Registry) Register(p Plugin) error {
	if err := Validate(p); err != nil {
		return err
	}
	name := p.Name()
	if _, exists := r.plugins[name]; exists {
		return &RegistryError{
			Code:       ErrCodeDuplicateName,
			PluginName: name,
			Message:    "a plugin with this name is already registered",
		}
	}

	r.plugins[name] = p
	r.order = append(r.order, name)
	r.enabled[name] = true

	if r.host != nil {
		if err := r.install(p); err != nil {
			r.logger.Error("plugin install failed",
				"plugin", name,
				"operation", "register",
				"error", err,
			)
			r.enabled[name] = false
		}
	}
	return nil
}

// Unregister uninstalls and removes the plugin. An uninstall failure is
// logged; the plugin is removed regardless. Unknown names are a no-op.
func (r *Registry) Unregister(name string) {
	p, ok := r.plugins[name]
	if !ok {
		return
	}
	if r.enabled[name] {
		if err := r.uninstall(p); err != nil {
			r.logger.Error("plugin uninstall failed",
				"plugin", name,
				"operation", "unregister",
				"error", err,
			)
		}
	}
	delete(r.plugins, name)
	delete(r.enabled, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Enable installs and marks the plugin enabled. Already-enabled and unknown
// names are no-ops. An install failure leaves the plugin disabled.
func (r *Registry) Enable(name string) {
	p, ok := r.plugins[name]
	if !ok || r.enabled[name] {
		return
	}
	if r.host != nil {
		if err := r.install(p); err != nil {
			r.logger.Error("plugin install failed",
				"plugin", name,
				"operation", "enable",
				"error", err,
			)
			return
		}
	}
	r.enabled[name] = true
}

// Disable uninstalls and marks the plugin disabled. Already-disabled and
// unknown names are no-ops. An uninstall failure is logged; the plugin is
// disabled regardless.
func (r *Registry) Disable(name string) {
	p, ok := r.plugins[name]
	if !ok || !r.enabled[name] {
		return
	}
	if err := r.uninstall(p); err != nil {
		r.logger.Error("plugin uninstall failed",
			"plugin", name,
			"operation", "disable",
			"error", err,
		)
	}
	r.enabled[name] = false
}

// Get returns the plugin registered under name.
func (r *Registry) Get(name string) (Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}

// Has reports whether a plugin is registered under name, enabled or not.
func (r *Registry) Has(name string) bool {
	_, ok := r.plugins[name]
	return ok
}

// IsEnabled reports whether the named plugin is registered and enabled.
func (r *Registry) IsEnabled(name string) bool {
	return r.enabled[name]
}

// List returns plugin infos in registration order.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		p := r.plugins[name]
		infos = append(infos, Info{
			Name:    p.Name(),
			Version: p.Version(),
			Type:    p.Type(),
			Enabled: r.enabled[name],
		})
	}
	return infos
}

// WithHook returns the enabled plugins exposing a hook for the given event
// kind, in registration order. Used by the kernel for dispatch.
func (r *Registry) WithHook(kind event.Kind) []Plugin {
	var out []Plugin
	for _, name := range r.order {
		if !r.enabled[name] {
			continue
		}
		p := r.plugins[name]
		if p.Hooks().ForKind(kind) != nil {
			out = append(out, p)
		}
	}
	return out
}

// WithLogHook returns the enabled plugins exposing the generic log hook, in
// registration order.
func (r *Registry) WithLogHook() []Plugin {
	var out []Plugin
	for _, name := range r.order {
		if !r.enabled[name] {
			continue
		}
		p := r.plugins[name]
		if p.Hooks().Log != nil {
			out = append(out, p)
		}
	}
	return out
}

// Clear uninstalls and removes every plugin. Each uninstall failure is
// isolated and logged so one failing plugin does not block cleanup of the
// rest.
func (r *Registry) Clear() {
	for _, name := range r.order {
		if !r.enabled[name] {
			continue
		}
		if err := r.uninstall(r.plugins[name]); err != nil {
			r.logger.Error("plugin uninstall failed",
				"plugin", name,
				"operation", "clear",
				"error", err,
			)
		}
	}
	r.plugins = make(map[string]Plugin)
	r.enabled = make(map[string]bool)
	r.order = nil
}

// install calls p.Install with panic containment.
func (r *Registry) install(p Plugin) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("install panicked: %v", rec)
		}
	}()
	return p.Install(r.host)
}

// uninstall calls p.Uninstall with panic containment.
func (r *Registry) uninstall(p Plugin) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("uninstall panicked: %v", rec)
		}
	}()
	return p.Uninstall()
}
