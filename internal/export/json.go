package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes the payload as indented JSON with a trailing newline.
func WriteJSON(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return nil
}

// WriteJSONCompact writes the payload as single-line JSON, suited for
// machine ingestion.
func WriteJSONCompact(w io.Writer, p Payload) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return nil
}
