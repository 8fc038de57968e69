// Package fuzztests houses Go fuzz harnesses for the external scanner and
// the reference host. They guard against panics, runaway loops and state
// invariant violations on arbitrary input.
package fuzztests
