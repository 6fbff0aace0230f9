package event

import (
	"fmt"
	"time"

	"github.com/davenwood/prism/internal/deep"
)

// Kind identifies one of the nine lifecycle event variants.
type Kind string

const (
	KindMount         Kind = "mount"
	KindUnmount       Kind = "unmount"
	KindUpdate        Kind = "update"
	KindPropsChange   Kind = "props-change"
	KindStateChange   Kind = "state-change"
	KindEffectRun     Kind = "effect-run"
	KindEffectCleanup Kind = "effect-cleanup"
	KindContextChange Kind = "context-change"
	KindError         Kind = "error"
)

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindMount, KindUnmount, KindUpdate,
		KindPropsChange, KindStateChange,
		KindEffectRun, KindEffectCleanup,
		KindContextChange, KindError,
	}
}

// Valid reports whether k is one of the nine kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMount, KindUnmount, KindUpdate,
		KindPropsChange, KindStateChange,
		KindEffectRun, KindEffectCleanup,
		KindContextChange, KindError:
		return true
	}
	return false
}

// Event is a single lifecycle occurrence on an instrumented component.
//
// Exactly the payload pointer matching Kind is set; the rest are nil.
// Mount, unmount and update carry no kind-specific payload.
type Event struct {
	Kind          Kind      `json:"kind" yaml:"kind"`
	ComponentID   string    `json:"component_id" yaml:"component_id"`
	ComponentName string    `json:"component_name" yaml:"component_name"`
	Time          time.Time `json:"time" yaml:"time"`

	Props   *PropsChange   `json:"props,omitempty" yaml:"props,omitempty"`
	State   *StateChange   `json:"state,omitempty" yaml:"state,omitempty"`
	Effect  *EffectInfo    `json:"effect,omitempty" yaml:"effect,omitempty"`
	Context *ContextChange `json:"context,omitempty" yaml:"context,omitempty"`
	Error   *ErrorInfo     `json:"error,omitempty" yaml:"error,omitempty"`
}

// PropsChange carries the ordered list of prop-level differences between two
// renders, plus the keys that changed reference without changing content
// (memoization hints).
type PropsChange struct {
	Changes  []deep.PropChange `json:"changes" yaml:"changes"`
	Unstable []string          `json:"unstable,omitempty" yaml:"unstable,omitempty"`
}

// StateChange carries the previous and next value of one state cell.
type StateChange struct {
	Hook int `json:"hook" yaml:"hook"`
	Prev any `json:"prev,omitempty" yaml:"prev,omitempty"`
	Next any `json:"next,omitempty" yaml:"next,omitempty"`
}

// EffectInfo carries the dependency array of an effect and, for effect-run,
// the indices that changed since the previous run.
type EffectInfo struct {
	Hook    int   `json:"hook" yaml:"hook"`
	Deps    []any `json:"deps,omitempty" yaml:"deps,omitempty"`
	Changed []int `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// ContextChange carries a context value transition observed by a consumer.
type ContextChange struct {
	Context string `json:"context" yaml:"context"`
	Prev    any    `json:"prev,omitempty" yaml:"prev,omitempty"`
	Next    any    `json:"next,omitempty" yaml:"next,omitempty"`
}

// ErrorInfo carries an error surfaced during render or effect execution.
type ErrorInfo struct {
	Message string `json:"message" yaml:"message"`
	Stack   string `json:"stack,omitempty" yaml:"stack,omitempty"`
}

// Validate checks that the event is well formed: a valid kind, a component
// identity, and the payload matching the kind (payloads for other kinds must
// be absent).
func (e Event) Validate() error {
	if !e.Kind.Valid() {
		return fmt.Errorf("invalid event kind %q", e.Kind)
	}
	if e.ComponentID == "" {
		return fmt.Errorf("%s event missing component id", e.Kind)
	}
	if e.ComponentName == "" {
		return fmt.Errorf("%s event missing component name", e.Kind)
	}

	want := map[Kind]bool{
		KindPropsChange:   e.Props != nil,
		KindStateChange:   e.State != nil,
		KindEffectRun:     e.Effect != nil,
		KindEffectCleanup: e.Effect != nil,
		KindContextChange: e.Context != nil,
		KindError:         e.Error != nil,
	}
	if need, ok := want[e.Kind]; ok && !need {
		return fmt.Errorf("%s event missing payload", e.Kind)
	}

	if e.Props != nil && e.Kind != KindPropsChange {
		return fmt.Errorf("%s event carries props payload", e.Kind)
	}
	if e.State != nil && e.Kind != KindStateChange {
		return fmt.Errorf("%s event carries state payload", e.Kind)
	}
	if e.Effect != nil && e.Kind != KindEffectRun && e.Kind != KindEffectCleanup {
		return fmt.Errorf("%s event carries effect payload", e.Kind)
	}
	if e.Context != nil && e.Kind != KindContextChange {
		return fmt.Errorf("%s event carries context payload", e.Kind)
	}
	if e.Error != nil && e.Kind != KindError {
		return fmt.Errorf("%s event carries error payload", e.Kind)
	}
	return nil
}
