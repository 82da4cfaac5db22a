package ui

// Stage is the step a file is in.
type Stage uint8

const (
	StageNone Stage = iota
	StageLoad
	StageValidate
	StageDiagnostics
)

// Status of a file within its stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event reports progress of one file; an empty File updates the header.
// Counts are cumulative for the file: zero leaves the shown value as is.
type Event struct {
	File   string
	Stage  Stage
	Status Status
	Detail string // failure message, shown in place of the counts

	Functions int // functions found by the item split
	Errors    int
	Warnings  int
}

// Sink receives progress events. Implementations must be goroutine-safe.
type Sink interface {
	Emit(ev Event)
}

// ChannelSink forwards events to a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) Emit(ev Event) { s.Ch <- ev }

// NopSink drops events.
type NopSink struct{}

func (NopSink) Emit(Event) {}
