package tilerender

import "path/filepath"

// OutputNameFor derives the default output file name from a MIDI path.
func OutputNameFor(midiPath string) string {
	base := filepath.Base(midiPath)
	return base[:len(base)-len(filepath.Ext(base))] + ".mp4"
}
