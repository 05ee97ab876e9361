package tilerender

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"tilefall/tilelayout"
)

const tileCornerRadius = 3

// DrawFrame rasterizes the scene at music time t into dc. It is a pure
// function of its arguments, so disjoint frames can be drawn concurrently on
// separate contexts.
func DrawFrame(dc *gg.Context, t float64, tiles []tilelayout.Tile, kb *tilelayout.Keyboard, cfg *tilelayout.RenderConfig) {
	keyColor := cfg.Color()

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	drawTiles(dc, t, tiles, kb, cfg, keyColor)
	drawKeyboard(dc, kb, cfg, tilelayout.ActiveTiles(tiles, t), keyColor)
	drawOctaveLabels(dc, kb)
}

func drawTiles(dc *gg.Context, t float64, tiles []tilelayout.Tile, kb *tilelayout.Keyboard, cfg *tilelayout.RenderConfig, keyColor color.RGBA) {
	for i := range tiles {
		tile := &tiles[i]
		leading := tile.LeadingEdge(kb, cfg, t)
		top := leading - tile.Height
		if leading <= 0 || top >= kb.Y {
			continue
		}
		// Past the hit line the tile pins against the keyboard and is
		// consumed from below until the note ends.
		bottom := math.Min(leading, kb.Y)
		height := bottom - top
		if height <= 0 {
			continue
		}

		c := keyColor
		if tile.Black {
			c = darkerShade(keyColor)
		}
		dc.DrawRoundedRectangle(tile.X, top, tile.Width, height, tileCornerRadius)
		setRGBA(dc, c, tile.Alpha)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 1)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
}

func drawKeyboard(dc *gg.Context, kb *tilelayout.Keyboard, cfg *tilelayout.RenderConfig, active map[int]*tilelayout.Tile, keyColor color.RGBA) {
	if kb.Height > 0 {
		// White keys first so the black keys overlay them.
		for i := range kb.Keys {
			key := &kb.Keys[i]
			if key.Black {
				continue
			}
			dc.DrawRectangle(key.X, kb.Y, key.Width, kb.Height)
			if tile, ok := active[key.Pitch]; ok {
				setRGBA(dc, keyColor, tile.Alpha)
			} else {
				dc.SetRGB(1, 1, 1)
			}
			dc.FillPreserve()
			dc.SetRGBA(0, 0, 0, 1)
			dc.SetLineWidth(0.5)
			dc.Stroke()
		}
		for i := range kb.Keys {
			key := &kb.Keys[i]
			if !key.Black {
				continue
			}
			dc.DrawRectangle(key.X, kb.Y, key.Width, kb.BlackKeyHeight)
			if tile, ok := active[key.Pitch]; ok {
				setRGBA(dc, darkerShade(keyColor), tile.Alpha)
			} else {
				dc.SetRGB(0.13, 0.13, 0.13)
			}
			dc.Fill()
		}
	}

	// Hit line.
	dc.SetRGBA(0, 0, 0, 1)
	dc.SetLineWidth(1)
	dc.DrawLine(0, kb.Y, float64(cfg.VideoWidth), kb.Y)
	dc.Stroke()
}

func drawOctaveLabels(dc *gg.Context, kb *tilelayout.Keyboard) {
	if kb.Height <= 0 {
		return
	}
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
	face := truetype.NewFace(font, &truetype.Options{Size: kb.WhiteKeyWidth / 2})
	dc.SetFontFace(face)
	dc.SetRGBA(0, 0, 0, 0.5)
	for octave := 1; octave <= 8; octave++ {
		key := kb.KeyFor(12*octave + 12) // C1 is MIDI 24
		if key == nil {
			continue
		}
		dc.DrawString(fmt.Sprintf("C%d", octave), key.X+key.Width/6, kb.Y+kb.Height-4)
	}
}
