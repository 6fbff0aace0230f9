package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/davenwood/prism/internal/capture"
	"github.com/davenwood/prism/internal/causal"
)

// ChainsResult holds the inferred causal chains for a replayed capture.
type ChainsResult struct {
	Name  string        `json:"name"`
	Roots []causal.Node `json:"roots"`
	Nodes []causal.Node `json:"nodes"`
}

func (r ChainsResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d chain(s), %d node(s)", r.Name, len(r.Roots), len(r.Nodes))
	byID := make(map[string]causal.Node, len(r.Nodes))
	for _, n := range r.Nodes {
		byID[n.ComponentID] = n
	}
	for _, root := range r.Roots {
		b.WriteString("\n")
		writeChain(&b, byID, root, 0)
	}
	return b.String()
}

func writeChain(b *strings.Builder, byID map[string]causal.Node, n causal.Node, indent int) {
	fmt.Fprintf(b, "%s%s (%s)", strings.Repeat("  ", indent+1), n.ComponentName, n.ComponentID)
	for _, childID := range n.Triggered {
		child, ok := byID[childID]
		if !ok {
			continue
		}
		b.WriteString("\n")
		writeChain(b, byID, child, indent+1)
	}
}

// NewChainsCommand creates the chains command.
func NewChainsCommand(rootOpts *RootOptions) *cobra.Command {
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "chains <capture-file>",
		Short: "Infer causal chains from a replayed capture",
		Long: `Replay a capture file and print the causal chains inferred from
mount and update co-occurrence. Two events on different components
closer together than the window are linked parent to child.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChains(rootOpts, args[0], window, cmd)
		},
	}
	cmd.Flags().DurationVar(&window, "window", causal.DefaultWindow, "co-occurrence window")
	return cmd
}

func runChains(opts *RootOptions, path string, window time.Duration, cmd *cobra.Command) error {
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
		return WrapExitError(ExitFailure, "chains failed", err)
	}

	k, err := newKernelFromEnv()
	if err != nil {
		if ferr := formatter.Error(err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "chains failed", err)
	}
	defer k.Destroy()

	analyzer := causal.New(causal.WithWindow(window))
	detach := analyzer.Attach(k)
	defer detach()

	capture.Replay(c, k)

	result := ChainsResult{
		Name:  c.Name,
		Roots: analyzer.Chains(),
		Nodes: analyzer.Nodes(),
	}
	formatter.VerboseLog("Inferred %d node(s) with window %s", len(result.Nodes), window)
	return formatter.Success(result)
}
