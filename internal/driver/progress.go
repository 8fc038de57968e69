package driver

import "time"

// Stage describes what the driver is doing with a document.
type Stage string

const (
	// StageLoad reads the document from disk.
	StageLoad Stage = "load"
	// StageScan runs the host and external scanner over the document.
	StageScan Stage = "scan"
	// StageCache stores the checkpoint table.
	StageCache Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the document is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the document is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the document is done.
	StatusDone Status = "done"
	// StatusError indicates the document could not be processed.
	StatusError Status = "error"
)

// Event reports progress for a document (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Tokens  int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, ev Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(ev)
}
