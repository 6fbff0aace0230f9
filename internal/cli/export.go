package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/davenwood/prism/internal/capture"
	"github.com/davenwood/prism/internal/export"
)

// Export target formats, selected with --to.
var validExportTargets = []string{"json", "json-compact", "csv", "sqlite"}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		target  string
		outPath string
		session string
	)

	cmd := &cobra.Command{
		Use:   "export <capture-file>",
		Short: "Replay a capture and export the resulting session",
		Long: `Replay a capture file through a kernel and export the retained log.

Targets:
  json          indented JSON payload
  json-compact  single-line JSON payload
  csv           flat table of entries
  sqlite        session archive database (requires --session)

JSON and CSV go to stdout unless --out is given; sqlite requires --out.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], target, outPath, session, cmd)
		},
	}
	cmd.Flags().StringVar(&target, "to", "json", "export target (json|json-compact|csv|sqlite)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	cmd.Flags().StringVar(&session, "session", "", "session id for sqlite archives")
	return cmd
}

func runExport(opts *RootOptions, path, target, outPath, session string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if !isValidExportTarget(target) {
		err := fmt.Errorf("invalid export target %q: must be one of %v", target, validExportTargets)
		if ferr := formatter.Error(err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "export failed", err)
	}

	c, err := capture.Load(path)
	if err != nil {
		if ferr := formatter.Error(err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "export failed", err)
	}

	k, err := newKernelFromEnv()
	if err != nil {
		if ferr := formatter.Error(err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "export failed", err)
	}
	defer k.Destroy()

	capture.Replay(c, k)
	payload := export.Build(k.Logs(), time.Now())
	formatter.VerboseLog("Exporting %d entrie(s) to %s", payload.Metadata.TotalLogs, target)

	if target == "sqlite" {
		if err := exportSQLite(cmd, outPath, session, payload); err != nil {
			if ferr := formatter.Error(err.Error(), nil); ferr != nil {
				return ferr
			}
			return WrapExitError(ExitCommandError, "export failed", err)
		}
		return formatter.Success(fmt.Sprintf("wrote session %q to %s", session, outPath))
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "export failed", err)
		}
		defer f.Close()
		out = f
	}

	switch target {
	case "json":
		err = export.WriteJSON(out, payload)
	case "json-compact":
		err = export.WriteJSONCompact(out, payload)
	case "csv":
		err = export.WriteCSV(out, payload)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "export failed", err)
	}
	return nil
}

func exportSQLite(cmd *cobra.Command, outPath, session string, payload export.Payload) error {
	if outPath == "" {
		return fmt.Errorf("sqlite export requires --out")
	}
	if session == "" {
		return fmt.Errorf("sqlite export requires --session")
	}
	archive, err := export.OpenArchive(outPath)
	if err != nil {
		return err
	}
	defer archive.Close()
	return archive.WriteSession(cmd.Context(), session, payload)
}

func isValidExportTarget(target string) bool {
	for _, t := range validExportTargets {
		if t == target {
			return true
		}
	}
	return false
}
