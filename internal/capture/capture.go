// Package capture loads recorded lifecycle sessions from YAML files and
// replays them through a kernel. Capture files are validated twice: against
// an embedded CUE schema for shape, then event by event for semantic
// consistency.
package capture

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/davenwood/prism/internal/event"
)

// Capture is a recorded session: a named, ordered sequence of lifecycle
// events suitable for replay.
type Capture struct {
	// Name identifies the capture.
	Name string `yaml:"name"`

	// Description explains what the session recorded.
	Description string `yaml:"description,omitempty"`

	// Events holds the recorded events in emission order.
	Events []event.Event `yaml:"events"`
}

// Load reads and parses a capture file. The file is schema-validated
// before decoding, and every event is semantically validated after.
// Unknown YAML fields are rejected.
func Load(path string) (*Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capture file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates capture file contents.
func Parse(data []byte) (*Capture, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var c Capture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse capture: %w", err)
	}

	if c.Name == "" {
		return nil, fmt.Errorf("invalid capture: name is required")
	}
	if len(c.Events) == 0 {
		return nil, fmt.Errorf("invalid capture: events list is required and must be non-empty")
	}
	for i, ev := range c.Events {
		if err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("invalid capture: event %d: %w", i, err)
		}
		// Recorded timestamps must not run backwards; replay relies on them.
		if i > 0 && !ev.Time.IsZero() && ev.Time.Before(c.Events[i-1].Time) {
			return nil, fmt.Errorf("invalid capture: event %d: time %s precedes event %d", i, ev.Time.Format(time.RFC3339Nano), i-1)
		}
	}
	return &c, nil
}
