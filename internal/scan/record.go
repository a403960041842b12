// Package scan implements the classification side of the scan-and-ingest
// pipeline: format detection for structured payloads, ISBN-shaped code
// classification for opaque text, mode guarding against the invoking
// workflow, and the channel arbiter that serializes the concurrent input
// sources (camera, keyboard-wedge scanner, manual entry).
package scan

import "time"

// Channel identifies the input source that produced a payload.
type Channel string

const (
	ChannelCamera        Channel = "camera"
	ChannelKeyboardWedge Channel = "keyboard-wedge"
	ChannelManual        Channel = "manual"
	ChannelFileDecode    Channel = "file-decode"
)

// Payload is a raw decoded string together with its originating channel.
// Payloads are transient; they are discarded once classified.
type Payload struct {
	Text       string
	Channel    Channel
	CapturedAt time.Time
}

// AssumedClass is the identity class a generic code is believed to be.
type AssumedClass string

const (
	ClassStudent AssumedClass = "student"
	ClassBook    AssumedClass = "book"
	ClassUnknown AssumedClass = "unknown"
)

// Record is the closed set of classification results. Exactly one variant
// is produced per payload; a student identity with missing fields is not
// representable (detection demotes such payloads to GenericCode instead).
type Record interface {
	isRecord()
}

// StudentIdentity is a structured digital-ID payload. StudentID,
// StudentNumber and Email are always all present.
type StudentIdentity struct {
	StudentID     string
	StudentNumber string
	Email         string
	FullName      string
	IssuedAt      time.Time
}

// BookIdentity is a structured or ISBN-shaped book payload.
type BookIdentity struct {
	BookID  string
	ISBN    string
	Title   string
	RawText string
}

// GenericCode is an opaque payload with no recognizable structure. Its
// class is resolved later by the mode guard, never by the classifier.
type GenericCode struct {
	RawText string
	Assumed AssumedClass
}

func (StudentIdentity) isRecord() {}
func (BookIdentity) isRecord()    {}
func (GenericCode) isRecord()     {}
