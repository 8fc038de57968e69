// Package trace provides span/event tracing for the qmdscan pipeline.
//
// # Usage
//
//	qmdscan tokenize --trace=- --trace-level=detail notebooks/
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr), text or NDJSON
//   - RingTracer: circular buffer kept for crash dumps
//   - MultiTracer: fan-out
//
// # Levels and scopes
//
// LevelPhase emits driver events, LevelDetail adds one span per document,
// LevelDebug adds one point per external scanner call.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFile, "tokenize:"+path, parentID)
//	defer span.End("")
package trace
