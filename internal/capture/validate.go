package capture

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// validateSchema checks raw capture file contents against the embedded CUE
// schema. Shape errors surface here with CUE's path-qualified messages;
// semantic payload rules are checked later by event.Event.Validate.
func validateSchema(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse capture: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile capture schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Capture"))
	if !def.Exists() {
		return fmt.Errorf("compile capture schema: #Capture definition missing")
	}

	val := ctx.Encode(raw)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode capture for validation: %w", err)
	}

	if err := def.Unify(val).Validate(cue.Final()); err != nil {
		return fmt.Errorf("invalid capture: %w", err)
	}
	return nil
}
