package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davenwood/prism/internal/capture"
	"github.com/davenwood/prism/internal/event"
)

// ValidateResult summarizes a validated capture file.
type ValidateResult struct {
	Valid      bool               `json:"valid"`
	Name       string             `json:"name"`
	Events     int                `json:"events"`
	Components int                `json:"components"`
	ByKind     map[event.Kind]int `json:"by_kind"`
}

func (r ValidateResult) String() string {
	return fmt.Sprintf("%s: valid (%d events, %d components)", r.Name, r.Events, r.Components)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <capture-file>",
		Short: "Validate a capture file without replaying it",
		Long: `Validate a capture file against the schema and semantic rules.

Checks the file shape, event kinds, component identities and payload
consistency without constructing a kernel.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	c, err := capture.Load(path)
	if err != nil {
		if ferr := formatter.Error(err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "validation failed", err)
	}

	result := ValidateResult{
		Valid:  true,
		Name:   c.Name,
		Events: len(c.Events),
		ByKind: make(map[event.Kind]int),
	}
	components := make(map[string]struct{})
	for _, ev := range c.Events {
		components[ev.ComponentID] = struct{}{}
		result.ByKind[ev.Kind]++
	}
	result.Components = len(components)

	formatter.VerboseLog("Loaded %d event(s) from %s", result.Events, path)
	return formatter.Success(result)
}
