package tilelayout

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"

	"tilefall/midiextract"
)

// Validate checks every parameter eagerly so a bad value fails at session
// construction, not mid-render.
func (cfg *RenderConfig) Validate() error {
	if cfg.VideoWidth <= 0 {
		return &ConfigError{Param: "VideoWidth", Reason: fmt.Sprintf("must be > 0, got %d", cfg.VideoWidth)}
	}
	if cfg.VideoHeight <= 0 {
		return &ConfigError{Param: "VideoHeight", Reason: fmt.Sprintf("must be > 0, got %d", cfg.VideoHeight)}
	}
	if cfg.DPI <= 0 {
		return &ConfigError{Param: "DPI", Reason: fmt.Sprintf("must be > 0, got %d", cfg.DPI)}
	}
	if cfg.FPS <= 0 {
		return &ConfigError{Param: "FPS", Reason: fmt.Sprintf("must be > 0, got %d", cfg.FPS)}
	}
	if cfg.KBRatio < 0 || cfg.KBRatio >= 1 {
		return &ConfigError{Param: "KBRatio", Reason: fmt.Sprintf("must be in [0,1), got %g", cfg.KBRatio)}
	}
	if cfg.TileVelocity <= 0 {
		return &ConfigError{Param: "TileVelocity", Reason: fmt.Sprintf("must be > 0, got %g", cfg.TileVelocity)}
	}
	if cfg.LeadInSec < 0 {
		return &ConfigError{Param: "LeadInSec", Reason: fmt.Sprintf("must be >= 0, got %g", cfg.LeadInSec)}
	}
	if cfg.LeadOutSec < 0 {
		return &ConfigError{Param: "LeadOutSec", Reason: fmt.Sprintf("must be >= 0, got %g", cfg.LeadOutSec)}
	}
	if _, ok := colornames.Map[strings.ToLower(cfg.KeyColor)]; !ok {
		return &ConfigError{Param: "KeyColor", Reason: fmt.Sprintf("unknown color name %q", cfg.KeyColor)}
	}
	return nil
}

// Color resolves the validated key color name.
func (cfg *RenderConfig) Color() color.RGBA {
	return colornames.Map[strings.ToLower(cfg.KeyColor)]
}

// BuildTiles converts note events into tile geometry. Pitches outside the
// 88-key range have no key to fall onto and are skipped.
func BuildTiles(notes []midiextract.NoteEvent, kb *Keyboard, cfg *RenderConfig) []Tile {
	tiles := make([]Tile, 0, len(notes))
	for i := range notes {
		n := &notes[i]
		key := kb.KeyFor(int(n.Pitch))
		if key == nil {
			continue
		}
		alpha := 1.0
		if cfg.ShowVelocity {
			alpha = float64(n.Velocity) / 127
		}
		tiles = append(tiles, Tile{
			Pitch:  int(n.Pitch),
			X:      key.X,
			Width:  key.Width,
			Height: n.Duration() * cfg.TileVelocity,
			Start:  n.Start,
			End:    n.End,
			Alpha:  alpha,
			Black:  key.Black,
		})
	}
	return tiles
}

// LeadingEdge is the y coordinate of the tile's lower (leading) edge at music
// time t. It reaches the keyboard line exactly at the hit time.
func (tile *Tile) LeadingEdge(kb *Keyboard, cfg *RenderConfig, t float64) float64 {
	return kb.Y - (tile.Start-t)*cfg.TileVelocity
}

// Active reports whether the note sounds at music time t. The interval is
// closed at Start and open at End.
func (tile *Tile) Active(t float64) bool {
	return tile.Start <= t && t < tile.End
}

// ActiveTiles picks, for each pitch, the first sounding tile at music time t
// in (Start, -Pitch) order. Used to highlight keyboard keys.
func ActiveTiles(tiles []Tile, t float64) map[int]*Tile {
	active := make(map[int]*Tile)
	for i := range tiles {
		tile := &tiles[i]
		if !tile.Active(t) {
			continue
		}
		if _, ok := active[tile.Pitch]; !ok {
			active[tile.Pitch] = tile
		}
	}
	return active
}
