package midiextract

import (
	"errors"
	"io"
	"log"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// Read parses a format 0/1 standard MIDI stream into note events with
// absolute times in seconds, tempo changes already applied.
//
// Note-on and note-off messages are paired FIFO per (pitch, channel): the
// oldest unmatched note-on is the one the next note-off closes. A note-on
// with velocity zero counts as a note-off. An orphan note-off is logged and
// skipped; a note-on still open when the file ends is closed at the final
// event time so the note stays visible.
//
// Events come back ordered by (Start, -Pitch). The returned duration is the
// end of the last note.
func Read(r io.Reader) ([]NoteEvent, float64, error) {
	type openKey struct {
		pitch   uint8
		channel uint8
	}
	var notes []NoteEvent
	open := map[openKey][]int{} // indexes into notes, oldest first
	var lastTime float64

	rd := smf.ReadTracksFrom(r)
	rd.Do(func(ev smf.TrackEvent) {
		t := float64(ev.AbsMicroSeconds) / 1e6
		if t > lastTime {
			lastTime = t
		}

		var ch, key, vel uint8
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			k := openKey{pitch: key, channel: ch}
			open[k] = append(open[k], len(notes))
			notes = append(notes, NoteEvent{
				Pitch:    key,
				Start:    t,
				End:      t,
				Velocity: vel,
				Channel:  ch,
				Track:    ev.TrackNo,
			})
			return
		}
		if ev.Message.GetNoteEnd(&ch, &key) {
			k := openKey{pitch: key, channel: ch}
			pending := open[k]
			if len(pending) == 0 {
				log.Printf("midiextract: orphan note-off (pitch %d channel %d at %.3fs), skipped", key, ch, t)
				return
			}
			notes[pending[0]].End = t
			open[k] = pending[1:]
		}
	})
	if err := rd.Error(); err != nil {
		return nil, 0, &ParseError{Err: err}
	}
	if len(notes) == 0 {
		return nil, 0, &ParseError{Err: errors.New("no notes")}
	}

	// Close anything left hanging at the end of the file.
	for _, pending := range open {
		for _, i := range pending {
			notes[i].End = lastTime
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Pitch > notes[j].Pitch
	})

	var duration float64
	for i := range notes {
		if notes[i].End > duration {
			duration = notes[i].End
		}
	}
	return notes, duration, nil
}

// ReadFile parses the MIDI file at path.
func ReadFile(path string) ([]NoteEvent, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	notes, duration, err := Read(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, 0, err
	}
	return notes, duration, nil
}
