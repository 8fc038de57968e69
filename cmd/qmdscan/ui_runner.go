package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"qmdscan/internal/driver"
	"qmdscan/internal/source"
	"qmdscan/internal/ui"
)

type dirOutcome struct {
	fs      *source.FileSet
	results []driver.Result
	err     error
}

// progressView renders events until it quits or events is closed.
type progressView func(ctx context.Context, events <-chan driver.Event) error

// tokenizeDirWithUI runs TokenizeDir while a progress view renders the
// events of files.
func tokenizeDirWithUI(ctx context.Context, title, dir string, files []string, opts driver.Options) (*source.FileSet, []driver.Result, error) {
	return runDirWithProgress(ctx, dir, opts, func(ctx context.Context, events <-chan driver.Event) error {
		model := ui.NewProgressModel(title, files, events)
		program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
		_, err := program.Run()
		return err
	})
}

// runDirWithProgress feeds TokenizeDir events to view. When view returns
// before the run ends, the run is cancelled and its remaining events are
// drained so the producer never blocks on a full channel.
func runDirWithProgress(ctx context.Context, dir string, opts driver.Options, view progressView) (*source.FileSet, []driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		runOpts := opts
		runOpts.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.TokenizeDir(ctx, dir, runOpts)
		close(events)
		outcomeCh <- dirOutcome{fs: fs, results: results, err: err}
	}()

	uiErr := view(ctx, events)
	cancel()
	for range events {
	}

	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
