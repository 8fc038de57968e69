package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"qmdscan/internal/prof"
	"qmdscan/internal/version"
)

// cli owns one command tree and the tracer it sets up. Tests build a fresh
// cli per case.
type cli struct {
	root    *cobra.Command
	cleanup func(error)
	prof    *prof.Session
}

func newCLI() *cli {
	c := &cli{}
	root := &cobra.Command{
		Use:           "qmdscan",
		Short:         "Quarto Markdown external tokenizer",
		Long:          `qmdscan runs the Quarto external scanner over .qmd documents and reports tokens, checkpoints and diagnostics`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyColorFlag(cmd)
			fn, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			c.cleanup = fn
			c.prof, err = startProfiling(cmd)
			return err
		},
	}
	c.root = root

	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newCheckpointsCmd())
	root.AddCommand(newStateCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("config", "", "path to qmdscan.toml (default: search upward from the target)")

	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")

	flags.String("cpuprofile", "", "write a CPU profile to file")
	flags.String("memprofile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")

	return c
}

// run executes args and flushes the tracer whether or not the command failed.
func (c *cli) run(args []string, stdout, stderr io.Writer) error {
	c.root.SetArgs(args)
	c.root.SetOut(stdout)
	c.root.SetErr(stderr)
	err := c.root.ExecuteContext(context.Background())
	if perr := c.prof.Stop(); perr != nil && err == nil {
		err = perr
	}
	c.prof = nil
	if c.cleanup != nil {
		c.cleanup(err)
		c.cleanup = nil
	}
	return err
}

func main() {
	if err := newCLI().run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// terminalWidth returns the width of f, or fallback when f is not a terminal.
func terminalWidth(f *os.File, fallback int) int {
	w, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // file descriptors fit in int
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	opts.CPU, _ = flags.GetString("cpuprofile")
	opts.Heap, _ = flags.GetString("memprofile")
	opts.Trace, _ = flags.GetString("runtime-trace")
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}
