package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

var csvHeader = []string{
	"id",
	"timestamp",
	"component_id",
	"component_name",
	"event_kind",
	"level",
	"formatted_text",
}

// WriteCSV writes the payload's log entries as a flat table. Structured
// payload fields are not exported; the formatted message stands in for
// them. encoding/csv quotes fields containing commas, quotes, or newlines.
func WriteCSV(w io.Writer, p Payload) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range p.Logs {
		row := []string{
			e.ID,
			e.Time.Format(time.RFC3339Nano),
			e.ComponentID,
			e.ComponentName,
			string(e.Event.Kind),
			e.Level.String(),
			e.Message,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
