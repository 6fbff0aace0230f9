package kernel

import (
	"fmt"
	"strings"

	"github.com/davenwood/prism/internal/event"
)

// Describe renders a one-line human-readable summary of an event, specific
// to its kind. The summary is stored on the log entry and reused verbatim by
// every renderer and export format.
func Describe(ev event.Event) string {
	name := ev.ComponentName

	switch ev.Kind {
	case event.KindMount:
		return fmt.Sprintf("%s mounted", name)

	case event.KindUnmount:
		return fmt.Sprintf("%s unmounted", name)

	case event.KindUpdate:
		return fmt.Sprintf("%s re-rendered", name)

	case event.KindPropsChange:
		if ev.Props == nil || len(ev.Props.Changes) == 0 {
			if ev.Props != nil && len(ev.Props.Unstable) > 0 {
				return fmt.Sprintf("%s props recreated without changes: %s",
					name, strings.Join(ev.Props.Unstable, ", "))
			}
			return fmt.Sprintf("%s props changed", name)
		}
		keys := make([]string, len(ev.Props.Changes))
		for i, c := range ev.Props.Changes {
			keys[i] = c.Key
		}
		summary := fmt.Sprintf("%s props changed: %s", name, strings.Join(keys, ", "))
		if n := len(ev.Props.Unstable); n > 0 {
			summary += fmt.Sprintf(" (+%d unstable)", n)
		}
		return summary

	case event.KindStateChange:
		if ev.State == nil {
			return fmt.Sprintf("%s state changed", name)
		}
		return fmt.Sprintf("%s state[%d] changed: %v -> %v",
			name, ev.State.Hook, ev.State.Prev, ev.State.Next)

	case event.KindEffectRun:
		if ev.Effect == nil {
			return fmt.Sprintf("%s effect ran", name)
		}
		if len(ev.Effect.Changed) == 0 {
			return fmt.Sprintf("%s effect[%d] ran (first run)", name, ev.Effect.Hook)
		}
		idx := make([]string, len(ev.Effect.Changed))
		for i, c := range ev.Effect.Changed {
			idx[i] = fmt.Sprintf("%d", c)
		}
		return fmt.Sprintf("%s effect[%d] ran (deps changed: %s)",
			name, ev.Effect.Hook, strings.Join(idx, ", "))

	case event.KindEffectCleanup:
		if ev.Effect == nil {
			return fmt.Sprintf("%s effect cleaned up", name)
		}
		return fmt.Sprintf("%s effect[%d] cleaned up", name, ev.Effect.Hook)

	case event.KindContextChange:
		if ev.Context == nil {
			return fmt.Sprintf("%s context changed", name)
		}
		return fmt.Sprintf("%s context %s changed: %v -> %v",
			name, ev.Context.Context, ev.Context.Prev, ev.Context.Next)

	case event.KindError:
		if ev.Error == nil {
			return fmt.Sprintf("%s errored", name)
		}
		return fmt.Sprintf("%s errored: %s", name, ev.Error.Message)

	default:
		return fmt.Sprintf("%s %s", name, ev.Kind)
	}
}
