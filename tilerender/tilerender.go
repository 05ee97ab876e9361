package tilerender

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fogleman/gg"

	"tilefall/midiextract"
	"tilefall/tilelayout"
)

const defaultWorkers = 8

// Session owns every resource of one render: the validated configuration,
// the keyboard layout, the tile records, and the pooled drawing contexts.
// Load once, render once.
type Session struct {
	cfg      tilelayout.RenderConfig
	keyboard *tilelayout.Keyboard
	tiles    []tilelayout.Tile
	duration float64 // seconds of music
	midiPath string
}

// New validates cfg eagerly and prepares a session.
func New(cfg tilelayout.RenderConfig) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	s := &Session{cfg: cfg}
	s.keyboard = tilelayout.NewKeyboard(&s.cfg)
	return s, nil
}

// LoadMidiFile parses the MIDI file at path and computes the tile layout.
func (s *Session) LoadMidiFile(path string, verbose bool) error {
	notes, duration, err := midiextract.ReadFile(path)
	if err != nil {
		return err
	}
	s.midiPath = path
	s.load(notes, duration, verbose, path)
	return nil
}

// Load parses MIDI from r. The audio track needs the file on disk for
// synthesis, so SoundFont is only honored after LoadMidiFile.
func (s *Session) Load(r io.Reader, verbose bool) error {
	notes, duration, err := midiextract.Read(r)
	if err != nil {
		return err
	}
	s.midiPath = ""
	s.load(notes, duration, verbose, "stream")
	return nil
}

func (s *Session) load(notes []midiextract.NoteEvent, duration float64, verbose bool, name string) {
	s.tiles = tilelayout.BuildTiles(notes, s.keyboard, &s.cfg)
	s.duration = duration
	if verbose {
		fmt.Printf("Midi loaded: %s (%d notes, %.2f secs)\n", name, len(notes), duration)
	}
}

// Tiles exposes the computed tile records, read-only by convention.
func (s *Session) Tiles() []tilelayout.Tile { return s.tiles }

// Keyboard exposes the computed key geometry, read-only by convention.
func (s *Session) Keyboard() *tilelayout.Keyboard { return s.keyboard }

// Duration is the music length in seconds, without lead-in and lead-out.
func (s *Session) Duration() float64 { return s.duration }

func (s *Session) totalSeconds() float64 {
	return s.cfg.LeadInSec + s.duration + s.cfg.LeadOutSec
}

// FrameCount is the number of output frames: the ceiling of the padded
// duration times the frame rate.
func (s *Session) FrameCount() int {
	return int(math.Ceil(s.totalSeconds() * float64(s.cfg.FPS)))
}

// FrameTime is the music time of frame i. Lead-in shifts it negative before
// the first note.
func (s *Session) FrameTime(i int) float64 {
	return float64(i)/float64(s.cfg.FPS) - s.cfg.LeadInSec
}

// DrawFrameAt rasterizes frame time t into dc using the loaded layout.
func (s *Session) DrawFrameAt(dc *gg.Context, t float64) {
	DrawFrame(dc, t, s.tiles, s.keyboard, &s.cfg)
}

// Render rasterizes every frame and assembles the output video at
// outputPath. ctx cancels cooperatively between frames. The intermediate
// frame directory is removed on all exit paths.
func (s *Session) Render(ctx context.Context, outputPath string, verbose bool) error {
	if s.tiles == nil {
		return fmt.Errorf("render: no midi loaded")
	}

	framesDir, err := os.MkdirTemp("", "tilefall-frames-")
	if err != nil {
		return &IOError{Op: "create frames dir", Path: framesDir, Err: err}
	}
	defer os.RemoveAll(framesDir)

	if verbose {
		fmt.Printf("Start rendering (total %d frames)\n", s.FrameCount())
	}
	if err := s.renderFrames(ctx, framesDir, verbose); err != nil {
		return err
	}

	audioPath := ""
	if s.cfg.SoundFont != "" && s.midiPath != "" {
		audioPath = filepath.Join(framesDir, "audio.wav")
		if err := s.renderAudioTrack(audioPath); err != nil {
			return err
		}
	}

	if err := createVideoFromFrames(framesDir, audioPath, outputPath, &s.cfg, s.totalSeconds()); err != nil {
		return err
	}
	if verbose {
		fmt.Printf("Done rendering\nFile saved %s\n", outputPath)
	}
	return nil
}

func (s *Session) renderFrames(ctx context.Context, framesDir string, verbose bool) error {
	workers := s.cfg.Workers
	contexts := make(chan *gg.Context, workers)
	for i := 0; i < workers; i++ {
		contexts <- gg.NewContext(s.cfg.VideoWidth, s.cfg.VideoHeight)
	}
	sem := make(chan struct{}, workers)

	var (
		wg        sync.WaitGroup
		finished  atomic.Uint64
		errOnce   sync.Once
		renderErr error
	)
	total := s.FrameCount()
	startTime := time.Now()

	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		dc := <-contexts
		go func(dc *gg.Context, i int) {
			defer wg.Done()
			s.DrawFrameAt(dc, s.FrameTime(i))
			path := filepath.Join(framesDir, fmt.Sprintf("fr%05d.png", i+1))
			if err := dc.SavePNG(path); err != nil {
				errOnce.Do(func() {
					renderErr = &IOError{Op: "write frame", Path: path, Err: err}
				})
			}
			f := finished.Add(1)
			if verbose && int(f)%(s.cfg.FPS*10) == 0 {
				fmt.Printf("Finished frames: %d/%d\tavg time per frame: %.4f\n",
					f, total, time.Since(startTime).Seconds()/float64(f))
			}
			<-sem
			contexts <- dc
		}(dc, i)
	}
	wg.Wait()

	if renderErr != nil {
		return renderErr
	}
	return ctx.Err()
}
