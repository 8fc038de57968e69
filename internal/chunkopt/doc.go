// Package chunkopt parses the pieces of an executable cell that the
// external scanner only delimits: the `{lang, attr=value}` header after an
// opening fence and the `key: value` text following each `#|` marker.
//
// Option values are YAML scalars or flow collections and are decoded with
// github.com/goccy/go-yaml.
package chunkopt
