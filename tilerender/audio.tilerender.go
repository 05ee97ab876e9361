package tilerender

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sinshu/go-meltysynth/meltysynth"
)

const (
	audioSampleRate = 44100
	// release tail after the last note so decays are not cut off
	audioTailSec = 1.0
)

// renderAudioTrack synthesizes the loaded MIDI through the configured
// SoundFont and writes a 16-bit stereo WAV for ffmpeg to mux.
func (s *Session) renderAudioTrack(outPath string) error {
	sfFile, err := os.Open(s.cfg.SoundFont)
	if err != nil {
		return &IOError{Op: "open soundfont", Path: s.cfg.SoundFont, Err: err}
	}
	defer sfFile.Close()
	soundFont, err := meltysynth.NewSoundFont(sfFile)
	if err != nil {
		return fmt.Errorf("parse soundfont %s: %w", s.cfg.SoundFont, err)
	}

	midiFile, err := os.Open(s.midiPath)
	if err != nil {
		return &IOError{Op: "open midi", Path: s.midiPath, Err: err}
	}
	defer midiFile.Close()
	mf, err := meltysynth.NewMidiFile(midiFile)
	if err != nil {
		return fmt.Errorf("parse midi for synthesis %s: %w", s.midiPath, err)
	}

	settings := meltysynth.NewSynthesizerSettings(audioSampleRate)
	synth, err := meltysynth.NewSynthesizer(soundFont, settings)
	if err != nil {
		return fmt.Errorf("create synthesizer: %w", err)
	}
	sequencer := meltysynth.NewMidiFileSequencer(synth)
	sequencer.Play(mf, false)

	sampleCount := int((s.duration + audioTailSec) * audioSampleRate)
	left := make([]float32, sampleCount)
	right := make([]float32, sampleCount)
	sequencer.Render(left, right)

	return writeStereoWAV(outPath, left, right, audioSampleRate)
}

// writeStereoWAV interleaves two float32 channels into 16-bit PCM.
func writeStereoWAV(path string, left, right []float32, sampleRate int) error {
	out, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create wav", Path: path, Err: err}
	}
	defer out.Close()

	data := make([]int, len(left)*2)
	for i := range left {
		data[i*2] = int(clampSample(left[i]) * 32767)
		data[i*2+1] = int(clampSample(right[i]) * 32767)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	enc := wav.NewEncoder(out, sampleRate, 16, 2, 1)
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return &IOError{Op: "write wav", Path: path, Err: err}
	}
	if err := enc.Close(); err != nil {
		return &IOError{Op: "close wav", Path: path, Err: err}
	}
	return nil
}

func clampSample(v float32) float64 {
	f := float64(v)
	if f > 1 {
		return 1
	}
	if f < -1 {
		return -1
	}
	return f
}
