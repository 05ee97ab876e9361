package midiextract

import "fmt"

// NoteEvent is one played note with absolute times in seconds.
type NoteEvent struct {
	Pitch    uint8
	Start    float64
	End      float64
	Velocity uint8
	Channel  uint8
	Track    int
}

// Duration is the sounding length of the note in seconds.
func (n *NoteEvent) Duration() float64 {
	return n.End - n.Start
}

// ParseError reports a MIDI file that could not be turned into note events.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse midi: %v", e.Err)
	}
	return fmt.Sprintf("parse midi %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
