package event

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Level orders log entries by severity: debug < info < warn < error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the lowercase level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return LevelDebug, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// MarshalText implements encoding.TextMarshaler so levels serialize as names
// in JSON output.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler (yaml.v3 does not consult
// encoding.TextMarshaler).
func (l Level) MarshalYAML() (any, error) {
	return l.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Level) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return l.UnmarshalText([]byte(s))
}

// LevelFor computes the log level of an event kind.
//
// Errors are always errors. Teardown noise (unmount, effect cleanup) is
// debug-only so default-level sessions track what components do, not how they
// leave. Everything else is info.
func LevelFor(k Kind) Level {
	switch k {
	case KindError:
		return LevelError
	case KindUnmount, KindEffectCleanup:
		return LevelDebug
	default:
		return LevelInfo
	}
}
