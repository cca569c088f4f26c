package subtitle

import (
	"fmt"
	"time"
)

// single timed, displayable subtitle unit
type Cue struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// complete subtitle track
type Subtitle struct {
	Cues     []Cue
	Language string
	Format   string
}

// supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
)

// transcribed speech segment; Words is empty when the transcriber
// only produced segment-level timing
type Segment struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
	Words     []Word
}

// word-level timing within a segment
type Word struct {
	Text      string
	StartTime time.Duration
	EndTime   time.Duration
}

// interface for writing subtitles to files
type Writer interface {
	Write(subtitle *Subtitle, path string) error
}

// reports transcription input the cue builder cannot accept
type MalformedSegmentError struct {
	Index  int
	Reason string
}

func (e *MalformedSegmentError) Error() string {
	return fmt.Sprintf("malformed segment %d: %s", e.Index, e.Reason)
}
