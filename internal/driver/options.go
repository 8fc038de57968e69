package driver

import (
	"qmdscan/internal/checkpoint"
)

// DefaultExtensions are walked by TokenizeDir when Options.Extensions is empty.
var DefaultExtensions = []string{".qmd"}

// Options configures tokenization.
type Options struct {
	// MaxDiagnostics caps each document's diagnostic bag.
	MaxDiagnostics int
	// Jobs limits concurrent documents in TokenizeDir; <= 0 means GOMAXPROCS.
	Jobs int
	// Extensions filters the directory walk (".qmd", ".rmd").
	Extensions []string
	// Cache, when set, receives the checkpoint table of every document.
	Cache *checkpoint.Cache
	// Progress receives per-document events.
	Progress ProgressSink
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}
