package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"qmdscan/internal/diag"
	"qmdscan/internal/diagfmt"
	"qmdscan/internal/driver"
	"qmdscan/internal/observ"
	"qmdscan/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] [file.qmd|dir]",
		Short: "Tokenize Quarto documents",
		Long: `Tokenize runs the reference host and the external scanner over a document
and prints its tokens. Given a directory, every matching document is
tokenized concurrently and a per-document summary is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Int("jobs", 0, "max parallel documents (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	cmd.Flags().Bool("cache", true, "store checkpoint tables in the cache")
	cmd.Flags().Bool("tokens", false, "in directory mode, print every document's tokens")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	var s *settings
	if err := timer.Track("config", func() error {
		s, err = loadSettings(cmd, target)
		return err
	}); err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("tokenize: %w", err)
	}
	if info.IsDir() {
		err = tokenizeDir(cmd, target, format, mode, s, timer)
	} else {
		err = tokenizeFile(cmd, target, format, s, timer)
	}
	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return err
}

func tokenizeFile(cmd *cobra.Command, path, format string, s *settings, timer *observ.Timer) error {
	var (
		fs  *source.FileSet
		res *driver.Result
	)
	if err := timer.Track("tokenize", func() error {
		var err error
		fs, res, err = driver.Tokenize(cmd.Context(), path, s.opts)
		return err
	}); err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	idx := timer.Begin("render")
	defer timer.End(idx, "")

	if !s.quiet && res.Bag.Len() > 0 {
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, fs, diagfmt.PrettyOpts{
			Color:     s.color,
			Context:   1,
			ShowNotes: true,
		}); err != nil {
			return err
		}
	}

	switch format {
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), res.Tokens)
	default:
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), res.Tokens, fs)
	}
}

// documentSummary is one document of directory JSON output.
type documentSummary struct {
	Path        string                    `json:"path"`
	Tokens      int                       `json:"tokens"`
	Checkpoints int                       `json:"checkpoints"`
	Scans       int                       `json:"scans"`
	Final       string                    `json:"final_state"`
	ElapsedMS   float64                   `json:"elapsed_ms"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
	TokenList   []diagfmt.TokenOutput     `json:"token_list,omitempty"`
}

func tokenizeDir(cmd *cobra.Command, dir, format string, mode uiMode, s *settings, timer *observ.Timer) error {
	withTokens, err := cmd.Flags().GetBool("tokens")
	if err != nil {
		return fmt.Errorf("failed to get tokens flag: %w", err)
	}

	var (
		fs      *source.FileSet
		results []driver.Result
	)
	if err := timer.Track("tokenize", func() error {
		if !shouldUseTUI(mode, s.quiet) {
			fs, results, err = driver.TokenizeDir(cmd.Context(), dir, s.opts)
			return err
		}
		files, err := driver.ListDocuments(dir, s.opts.Extensions)
		if err != nil {
			return err
		}
		fs, results, err = tokenizeDirWithUI(cmd.Context(), "tokenize "+dir, dir, files, s.opts)
		return err
	}); err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	idx := timer.Begin("render")
	defer timer.End(idx, fmt.Sprintf("%d documents", len(results)))

	failed := 0
	for i := range results {
		if results[i].Bag != nil && results[i].Bag.HasErrors() {
			failed++
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = writeDirJSON(out, fs, results, withTokens)
	default:
		err = writeDirPretty(cmd, fs, results, withTokens, s)
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func writeDirPretty(cmd *cobra.Command, fs *source.FileSet, results []driver.Result, withTokens bool, s *settings) error {
	out := cmd.OutOrStdout()
	for i := range results {
		res := &results[i]
		if res.Tokens == nil {
			fmt.Fprintf(out, "%s: not tokenized\n", res.Path)
		} else {
			fmt.Fprintf(out, "%s: %d tokens, %d checkpoints, %d scans, final %s\n",
				fs.DisplayPath(res.FileID), len(res.Tokens), len(res.Checkpoints), res.Scans, res.Final)
		}
		if withTokens && res.Tokens != nil {
			if err := diagfmt.FormatTokensPretty(out, res.Tokens, fs); err != nil {
				return err
			}
		}
		if s.quiet || res.Bag == nil || res.Bag.Len() == 0 {
			continue
		}
		if err := diagfmt.Pretty(cmd.ErrOrStderr(), res.Bag, resultFiles(fs, res), diagfmt.PrettyOpts{
			Color:     s.color,
			ShowNotes: true,
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeDirJSON(out io.Writer, fs *source.FileSet, results []driver.Result, withTokens bool) error {
	docs := make([]documentSummary, 0, len(results))
	for i := range results {
		res := &results[i]
		bag := res.Bag
		if bag == nil {
			bag = diag.NewBag(0)
		}
		doc := documentSummary{
			Path:        res.Path,
			Tokens:      len(res.Tokens),
			Checkpoints: len(res.Checkpoints),
			Scans:       res.Scans,
			Final:       res.Final.String(),
			ElapsedMS:   float64(res.Elapsed.Microseconds()) / 1000,
			Diagnostics: diagfmt.BuildDiagnosticsOutput(bag, resultFiles(fs, res), diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true}),
		}
		if withTokens {
			for _, tok := range res.Tokens {
				doc.TokenList = append(doc.TokenList, diagfmt.TokenOutput{
					Kind:     tok.Kind.String(),
					Text:     tok.Text,
					Span:     tok.Span,
					External: tok.IsExternal(),
				})
			}
		}
		docs = append(docs, doc)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

// resultFiles returns the FileSet that resolves res's diagnostics. Documents
// that failed to load carry spans that point at no file.
func resultFiles(fs *source.FileSet, res *driver.Result) *source.FileSet {
	if res.Tokens == nil {
		return source.NewFileSet()
	}
	return fs
}
