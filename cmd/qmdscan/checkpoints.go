package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"qmdscan/internal/checkpoint"
	"qmdscan/internal/diagfmt"
	"qmdscan/internal/driver"
	"qmdscan/internal/source"
)

func newCheckpointsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoints [flags] file.qmd",
		Short: "Print the per-line checkpoint table of a document",
		Long: `Checkpoints prints the scanner state recorded at every line start that is
also a token boundary. Tables are served from the cache when the document
content is unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheckpoints,
	}
	cmd.Flags().String("format", "table", "output format (table|json)")
	cmd.Flags().Bool("cache", true, "read and store checkpoint tables in the cache")
	return cmd
}

type checkpointJSON struct {
	Line   uint32 `json:"line"`
	Offset uint32 `json:"offset"`
	State  string `json:"state"`
	Table  bool   `json:"table"`
}

type checkpointsJSON struct {
	Path        string           `json:"path"`
	Hash        string           `json:"sha256"`
	Cached      bool             `json:"cached"`
	Checkpoints []checkpointJSON `json:"checkpoints"`
}

func runCheckpoints(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := loadSettings(cmd, path)
	if err != nil {
		return err
	}
	table, cached, err := driver.LoadCheckpoints(cmd.Context(), path, s.opts)
	if err != nil {
		return err
	}

	if format == "json" {
		return writeCheckpointsJSON(cmd, table, cached)
	}

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if !s.quiet && cached {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: checkpoints served from cache %s\n", fs.DisplayPath(id), s.opts.Cache.Dir())
	}
	return diagfmt.FormatCheckpoints(cmd.OutOrStdout(), table.Entries, fs.Get(id), diagfmt.TableOpts{
		Color: useColor(cmd, os.Stdout),
		Width: terminalWidth(os.Stdout, 100),
	})
}

func writeCheckpointsJSON(cmd *cobra.Command, table *checkpoint.Table, cached bool) error {
	out := checkpointsJSON{
		Path:        table.Path,
		Hash:        fmt.Sprintf("%x", table.Hash),
		Cached:      cached,
		Checkpoints: make([]checkpointJSON, 0, len(table.Entries)),
	}
	for _, e := range table.Entries {
		out.Checkpoints = append(out.Checkpoints, checkpointJSON{
			Line:   e.Line,
			Offset: e.Offset,
			State:  fmt.Sprintf("%x", e.State),
			Table:  e.Table,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
