package kernel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davenwood/prism/internal/event"
	"github.com/davenwood/prism/internal/logstore"
	"github.com/davenwood/prism/internal/plugin"
	"github.com/davenwood/prism/internal/testutil"
)

var sessionStart = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestKernel(opts ...Option) (*Kernel, *testutil.ManualClock) {
	clock := testutil.NewManualClock(sessionStart)
	base := []Option{
		WithClock(clock),
		WithIDGenerator(testutil.NewSeqIDs("entry")),
	}
	return New(append(base, opts...)...), clock
}

func mountEvent(id, name string) event.Event {
	return event.Event{Kind: event.KindMount, ComponentID: id, ComponentName: name}
}

// hookPlugin records hook invocations; its hooks can be made to panic.
type hookPlugin struct {
	name      string
	events    []event.Event
	entries   []logstore.Entry
	panicking bool
}

func (p *hookPlugin) Name() string              { return p.name }
func (p *hookPlugin) Version() string           { return "1.0.0" }
func (p *hookPlugin) Type() plugin.Type         { return plugin.TypeOptional }
func (p *hookPlugin) Install(plugin.Host) error { return nil }
func (p *hookPlugin) Uninstall() error          { return nil }

func (p *hookPlugin) Hooks() plugin.Hooks {
	record := func(ev event.Event) {
		if p.panicking {
			panic("hook bug")
		}
		p.events = append(p.events, ev)
	}
	return plugin.Hooks{
		Mount:  record,
		Update: record,
		Error:  record,
		Log: func(e logstore.Entry) {
			if p.panicking {
				panic("log hook bug")
			}
			p.entries = append(p.entries, e)
		},
	}
}

func TestKernel_Emit_StoresFormattedEntry(t *testing.T) {
	k, _ := newTestKernel()

	k.Emit(mountEvent("c1", "Header"))

	snap := k.Logs()
	require.Len(t, snap.Entries, 1)
	e := snap.Entries[0]
	assert.Equal(t, "entry-1", e.ID)
	assert.Equal(t, "c1", e.ComponentID)
	assert.Equal(t, "Header", e.ComponentName)
	assert.Equal(t, event.LevelInfo, e.Level)
	assert.Equal(t, "Header mounted", e.Message)
	assert.Equal(t, sessionStart, e.Time)
}

func TestKernel_Emit_DispatchOrder(t *testing.T) {
	k, _ := newTestKernel()

	var order []string
	k.Subscribe(event.KindMount, func(event.Event) { order = append(order, "bus") })
	k.SubscribeLogs(func(logstore.Entry) { order = append(order, "log-bus") })

	p := &hookPlugin{name: "probe"}
	require.NoError(t, k.Register(p))

	k.Emit(mountEvent("c1", "App"))

	// Bus first, then kind hooks, then persistence fan-out.
	assert.Equal(t, []string{"bus", "log-bus"}, order)
	require.Len(t, p.events, 1)
	require.Len(t, p.entries, 1)
	assert.Equal(t, p.entries[0].ID, "entry-1")
}

func TestKernel_Emit_Disabled_TrueNoOp(t *testing.T) {
	k, _ := newTestKernel(WithDisabled())

	var handlerCalls int
	k.Subscribe(event.KindMount, func(event.Event) { handlerCalls++ })
	p := &hookPlugin{name: "probe"}
	require.NoError(t, k.Register(p))

	k.Emit(mountEvent("c1", "App"))

	assert.Equal(t, 0, handlerCalls, "no bus dispatch while disabled")
	assert.Empty(t, p.events, "no hook dispatch while disabled")
	assert.Empty(t, k.Logs().Entries, "no storage while disabled")
}

func TestKernel_Emit_LevelGate(t *testing.T) {
	k, _ := newTestKernel(WithLogLevel(event.LevelInfo))

	var busCalls int
	k.Subscribe(event.KindUnmount, func(event.Event) { busCalls++ })
	p := &hookPlugin{name: "probe"}
	require.NoError(t, k.Register(p))

	// Unmount is debug-level: below the configured minimum.
	k.Emit(event.Event{Kind: event.KindUnmount, ComponentID: "c1", ComponentName: "App"})

	assert.Equal(t, 1, busCalls, "below-level events still reach bus subscribers")
	assert.Empty(t, k.Logs().Entries, "but are not persisted")
	assert.Empty(t, p.entries, "and log hooks never fire for them")
	assert.Len(t, p.events, 0, "unmount has no hook on the probe plugin")
}

func TestKernel_Emit_MalformedEventDropped(t *testing.T) {
	k, _ := newTestKernel()

	k.Emit(event.Event{Kind: "render", ComponentID: "c1", ComponentName: "App"})
	k.Emit(event.Event{Kind: event.KindMount})

	assert.Empty(t, k.Logs().Entries)
}

func TestKernel_Emit_HookPanicIsolated(t *testing.T) {
	k, _ := newTestKernel()

	bad := &hookPlugin{name: "bad", panicking: true}
	good := &hookPlugin{name: "good"}
	require.NoError(t, k.Register(bad))
	require.NoError(t, k.Register(good))

	assert.NotPanics(t, func() { k.Emit(mountEvent("c1", "App")) })

	require.Len(t, good.events, 1, "panicking plugin must not block later plugins")
	require.Len(t, good.entries, 1)
	assert.Len(t, k.Logs().Entries, 1, "entry still persisted")
}

func TestKernel_Emit_UsesEventTimeWhenSet(t *testing.T) {
	k, clock := newTestKernel()
	clock.Advance(time.Hour)

	captured := sessionStart.Add(5 * time.Second)
	ev := mountEvent("c1", "App")
	ev.Time = captured
	k.Emit(ev)

	snap := k.Logs()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, captured, snap.Entries[0].Time, "adapter-provided timestamps win")
}

func TestKernel_Configure_Merges(t *testing.T) {
	k, _ := newTestKernel()

	k.Configure(Options{Enabled: Enabled(false)})
	assert.False(t, k.Enabled())

	k.Configure(Options{MaxLogs: 2, LogLevel: Level(event.LevelError)})
	assert.False(t, k.Enabled(), "unset fields stay untouched")

	k.Configure(Options{Enabled: Enabled(true)})
	for i := 0; i < 5; i++ {
		k.Emit(event.Event{
			Kind: event.KindError, ComponentID: "c1", ComponentName: "App",
			Error: &event.ErrorInfo{Message: "boom"},
		})
	}
	assert.Equal(t, 2, len(k.Logs().Entries), "capacity applied")

	k.Emit(mountEvent("c1", "App"))
	assert.Equal(t, 2, len(k.Logs().Entries), "info gated out by error level")
}

func TestKernel_ClearLogs_PreservesSession(t *testing.T) {
	k, _ := newTestKernel()
	k.Emit(mountEvent("c1", "App"))

	k.ClearLogs()

	snap := k.Logs()
	assert.Empty(t, snap.Entries)
	assert.Equal(t, sessionStart, snap.StartTime)
}

func TestKernel_FilterLogs(t *testing.T) {
	k, clock := newTestKernel()
	k.Emit(mountEvent("c1", "Header"))
	clock.Advance(time.Millisecond)
	k.Emit(event.Event{Kind: event.KindUpdate, ComponentID: "c2", ComponentName: "Sidebar"})

	got := k.FilterLogs(logstore.Filter{ComponentName: "Sidebar"})
	require.Len(t, got, 1)
	assert.Equal(t, "Sidebar", got[0].ComponentName)
}

func TestKernel_PluginDelegations(t *testing.T) {
	k, _ := newTestKernel()
	p := &hookPlugin{name: "probe"}
	require.NoError(t, k.Register(p))

	got, ok := k.GetPlugin("probe")
	require.True(t, ok)
	assert.Equal(t, "probe", got.Name())

	infos := k.ListPlugins()
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Enabled)

	k.DisablePlugin("probe")
	assert.False(t, k.ListPlugins()[0].Enabled)
	k.EnablePlugin("probe")
	assert.True(t, k.ListPlugins()[0].Enabled)

	k.Unregister("probe")
	assert.Empty(t, k.ListPlugins())
}

func TestKernel_Destroy_Idempotent(t *testing.T) {
	k, _ := newTestKernel()
	p := &hookPlugin{name: "probe"}
	require.NoError(t, k.Register(p))
	var busCalls int
	k.Subscribe(event.KindMount, func(event.Event) { busCalls++ })

	k.Destroy()
	k.Destroy()

	assert.False(t, k.Enabled())
	assert.Empty(t, k.ListPlugins())
	k.Emit(mountEvent("c1", "App"))
	assert.Equal(t, 0, busCalls)
}
