package driver

import (
	"context"
	"fmt"
	"time"

	"qmdscan/internal/checkpoint"
	"qmdscan/internal/diag"
	"qmdscan/internal/scanner"
	"qmdscan/internal/source"
	"qmdscan/internal/token"
)

// Result is the outcome of tokenizing one document.
type Result struct {
	Path        string
	FileID      source.FileID
	Tokens      []token.Token
	Checkpoints []checkpoint.Entry
	Final       scanner.State
	Bag         *diag.Bag
	Scans       int
	Elapsed     time.Duration
}

// Tokenize loads path into a fresh FileSet and tokenizes it.
func Tokenize(ctx context.Context, path string, opts Options) (*source.FileSet, *Result, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	res, err := TokenizeFile(ctx, fs, fs.Get(fileID), opts)
	if err != nil {
		return fs, nil, err
	}
	return fs, res, nil
}

// TokenizeFile tokenizes a document already held by fs.
func TokenizeFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) (*Result, error) {
	started := time.Now()
	s := NewSession(fs, file, opts)
	if err := s.Run(ctx); err != nil {
		return nil, err
	}
	if opts.Cache != nil {
		emit(opts.Progress, Event{File: file.Path, Stage: StageCache, Status: StatusWorking})
		if err := opts.Cache.Put(s.Table()); err != nil {
			return nil, fmt.Errorf("cache checkpoints for %s: %w", file.Path, err)
		}
	}
	return &Result{
		Path:        file.Path,
		FileID:      file.ID,
		Tokens:      s.Tokens(),
		Checkpoints: s.Checkpoints(),
		Final:       s.State(),
		Bag:         s.Diagnostics(),
		Scans:       s.Scans(),
		Elapsed:     time.Since(started),
	}, nil
}

// LoadCheckpoints returns the checkpoint table of path, served from
// opts.Cache when the content hash matches a stored table.
func LoadCheckpoints(ctx context.Context, path string, opts Options) (table *checkpoint.Table, cached bool, err error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", path, err)
	}
	file := fs.Get(fileID)

	if opts.Cache != nil {
		t, ok, err := opts.Cache.Get(file.Hash)
		if err != nil {
			return nil, false, err
		}
		if ok {
			// Same content may live under another path.
			t.Path = file.Path
			return t, true, nil
		}
	}

	s := NewSession(fs, file, opts)
	if err := s.Run(ctx); err != nil {
		return nil, false, err
	}
	table = s.Table()
	if opts.Cache != nil {
		if err := opts.Cache.Put(table); err != nil {
			return nil, false, fmt.Errorf("cache checkpoints for %s: %w", path, err)
		}
	}
	return table, false, nil
}
