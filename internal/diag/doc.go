// Package diag defines the diagnostic model shared by the scanning driver
// and the CLI.
//
// Diagnostics describe document-level findings (an executable cell left open
// at end of input, a malformed chunk option). They are not errors: the
// scanner never fails on malformed input, it only declines to produce a
// token. Producers emit through a Reporter; BagReporter collects into a
// bounded Bag that supports sorting and deduplication. Rendering lives in
// internal/diagfmt.
package diag
