// Package causal infers which component render triggered which.
//
// The analyzer is an external consumer built purely on kernel events: it
// subscribes to mount and update, consumes them strictly in arrival order,
// and links a render to the immediately preceding one when the two happen
// within a short time window on different components.
//
// This is a best-effort temporal-co-occurrence heuristic, not a verified
// dependency graph: near the window boundary it will both miss links and
// invent them. Callers that know the real relationship can wire it
// explicitly with RegisterParent, which always beats the timing heuristic.
package causal

import (
	"log/slog"
	"time"

	"github.com/davenwood/prism/internal/bus"
	"github.com/davenwood/prism/internal/event"
)

// DefaultWindow is the elapsed-time threshold under which two consecutive
// renders of different components are linked. One frame at 60Hz plus
// scheduling slack.
const DefaultWindow = 50 * time.Millisecond

// DefaultMaxDepth is the chain depth above which a diagnostic is emitted.
// Chains deeper than this usually mean a render loop, not a real hierarchy.
const DefaultMaxDepth = 10

// Node is one component's position in the inferred chains.
type Node struct {
	ComponentID   string    `json:"component_id" yaml:"component_id"`
	ComponentName string    `json:"component_name" yaml:"component_name"`
	TriggeredBy   string    `json:"triggered_by,omitempty" yaml:"triggered_by,omitempty"`
	Triggered     []string  `json:"triggered,omitempty" yaml:"triggered,omitempty"`
	Depth         int       `json:"depth" yaml:"depth"`
	Time          time.Time `json:"time" yaml:"time"`
}

// EventSource is the slice of the kernel surface the analyzer needs.
// Implemented by kernel.Kernel.
type EventSource interface {
	Subscribe(kind event.Kind, h bus.Handler) func()
}

// Analyzer maintains the inferred chain state.
//
// Not internally locked: it consumes events synchronously from the kernel's
// fan-out and inherits its single-writer discipline.
type Analyzer struct {
	nodes    map[string]*Node
	order    []string          // first-seen order, for stable listings
	explicit map[string]string // child id -> parent id, wired by the caller

	lastID   string
	lastTime time.Time

	window   time.Duration
	maxDepth int
	logger   *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithWindow overrides the linking window.
func WithWindow(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		if d > 0 {
			a.window = d
		}
	}
}

// WithMaxDepth overrides the depth diagnostic threshold.
func WithMaxDepth(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxDepth = n
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an empty analyzer.
func New(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		nodes:    make(map[string]*Node),
		explicit: make(map[string]string),
		window:   DefaultWindow,
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Attach subscribes the analyzer to mount and update events on src.
// The returned closure detaches both subscriptions and is idempotent.
func (a *Analyzer) Attach(src EventSource) func() {
	unsubMount := src.Subscribe(event.KindMount, a.Observe)
	unsubUpdate := src.Subscribe(event.KindUpdate, a.Observe)
	return func() {
		unsubMount()
		unsubUpdate()
	}
}

// Observe consumes one mount or update event. Other kinds are ignored.
//
// The event's component is linked as triggered-by the previous event's
// component iff the elapsed time since the previous event is below the
// window and the component differs; otherwise it starts a new chain root.
// An explicitly registered parent overrides the heuristic.
func (a *Analyzer) Observe(ev event.Event) {
	if ev.Kind != event.KindMount && ev.Kind != event.KindUpdate {
		return
	}

	node, ok := a.nodes[ev.ComponentID]
	if !ok {
		node = &Node{ComponentID: ev.ComponentID, ComponentName: ev.ComponentName}
		a.nodes[ev.ComponentID] = node
		a.order = append(a.order, ev.ComponentID)
	}

	parentID := ""
	if explicit, wired := a.explicit[ev.ComponentID]; wired {
		if _, known := a.nodes[explicit]; known {
			parentID = explicit
		}
	} else if a.lastID != "" &&
		a.lastID != ev.ComponentID &&
		ev.Time.Sub(a.lastTime) < a.window {
		parentID = a.lastID
	}

	a.relink(node, parentID)
	node.Time = ev.Time

	if node.Depth > a.maxDepth {
		a.logger.Warn("causal chain exceeds max depth",
			"component_id", node.ComponentID,
			"component_name", node.ComponentName,
			"depth", node.Depth,
			"max_depth", a.maxDepth,
		)
	}

	a.lastID = ev.ComponentID
	a.lastTime = ev.Time
}

// relink moves node under parentID (or to a root when parentID is empty),
// keeping both sides' Triggered lists consistent.
func (a *Analyzer) relink(node *Node, parentID string) {
	if node.TriggeredBy == parentID {
		if parentID != "" {
			node.Depth = a.nodes[parentID].Depth + 1
		}
		return
	}

	if prev, ok := a.nodes[node.TriggeredBy]; ok {
		for i, id := range prev.Triggered {
			if id == node.ComponentID {
				prev.Triggered = append(prev.Triggered[:i], prev.Triggered[i+1:]...)
				break
			}
		}
	}

	node.TriggeredBy = parentID
	if parentID == "" {
		node.Depth = 0
		return
	}
	parent := a.nodes[parentID]
	parent.Triggered = append(parent.Triggered, node.ComponentID)
	node.Depth = parent.Depth + 1
}

// RegisterParent wires an authoritative parent for a component, overriding
// the timing heuristic for its future events. The parent takes effect once
// both components have been observed.
func (a *Analyzer) RegisterParent(childID, parentID string) {
	a.explicit[childID] = parentID
}

// UnregisterParent removes an explicit wiring.
func (a *Analyzer) UnregisterParent(childID string) {
	delete(a.explicit, childID)
}

// Node returns a copy of the chain node for a component id.
func (a *Analyzer) Node(id string) (Node, bool) {
	n, ok := a.nodes[id]
	if !ok {
		return Node{}, false
	}
	return copyNode(n), true
}

// Chains returns copies of the root nodes in first-seen order.
func (a *Analyzer) Chains() []Node {
	var roots []Node
	for _, id := range a.order {
		n := a.nodes[id]
		if n.TriggeredBy == "" {
			roots = append(roots, copyNode(n))
		}
	}
	return roots
}

// Nodes returns copies of every node in first-seen order.
func (a *Analyzer) Nodes() []Node {
	out := make([]Node, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, copyNode(a.nodes[id]))
	}
	return out
}

// Reset drops all chain state. Explicit parent wirings are kept.
func (a *Analyzer) Reset() {
	a.nodes = make(map[string]*Node)
	a.order = nil
	a.lastID = ""
	a.lastTime = time.Time{}
}

func copyNode(n *Node) Node {
	c := *n
	c.Triggered = append([]string(nil), n.Triggered...)
	return c
}
