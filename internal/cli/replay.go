package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davenwood/prism/internal/capture"
	"github.com/davenwood/prism/internal/kernel"
)

// ReplayResult summarizes a replayed session.
type ReplayResult struct {
	Name     string         `json:"name"`
	Emitted  int            `json:"emitted"`
	Stored   int            `json:"stored"`
	ByLevel  map[string]int `json:"by_level"`
	Messages []string       `json:"messages,omitempty"`
}

func (r ReplayResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: replayed %d event(s), stored %d", r.Name, r.Emitted, r.Stored)
	levels := make([]string, 0, len(r.ByLevel))
	for l := range r.ByLevel {
		levels = append(levels, l)
	}
	sort.Strings(levels)
	for _, l := range levels {
		fmt.Fprintf(&b, "\n  %s: %d", l, r.ByLevel[l])
	}
	for _, m := range r.Messages {
		fmt.Fprintf(&b, "\n  %s", m)
	}
	return b.String()
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	var showMessages bool

	cmd := &cobra.Command{
		Use:   "replay <capture-file>",
		Short: "Replay a capture through a kernel and summarize the log",
		Long: `Replay a capture file through a freshly constructed kernel.

The kernel is configured from PRISM_MAX_LOGS, PRISM_LOG_LEVEL and
PRISM_DISABLED; events below the configured level are not persisted,
so the stored count can be lower than the emitted count.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, args[0], showMessages, cmd)
		},
	}
	cmd.Flags().BoolVar(&showMessages, "messages", false, "include formatted log messages")
	return cmd
}

func runReplay(opts *RootOptions, path string, showMessages bool, cmd *cobra.Command) error {
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
		return WrapExitError(ExitFailure, "replay failed", err)
	}

	k, err := newKernelFromEnv()
	if err != nil {
		if ferr := formatter.Error(err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "replay failed", err)
	}
	defer k.Destroy()

	emitted := capture.Replay(c, k)
	snap := k.Logs()

	result := ReplayResult{
		Name:    c.Name,
		Emitted: emitted,
		Stored:  len(snap.Entries),
		ByLevel: make(map[string]int),
	}
	for _, e := range snap.Entries {
		result.ByLevel[e.Level.String()]++
		if showMessages {
			result.Messages = append(result.Messages, e.Message)
		}
	}

	formatter.VerboseLog("Replayed %s (session start %s)", path, snap.StartTime)
	return formatter.Success(result)
}

func newKernelFromEnv() (*kernel.Kernel, error) {
	cfg, err := LoadEnvConfig()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.KernelOptions()
	if err != nil {
		return nil, err
	}
	return kernel.New(opts...), nil
}
