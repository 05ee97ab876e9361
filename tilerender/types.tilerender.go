package tilerender

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

// IOError reports a failure producing the output video or its intermediates.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// darkerShade is the fill used for black-key tiles and active black keys.
func darkerShade(c color.RGBA) color.RGBA {
	const d = 0.8
	return color.RGBA{
		R: uint8(float64(c.R) * d),
		G: uint8(float64(c.G) * d),
		B: uint8(float64(c.B) * d),
		A: c.A,
	}
}

func setRGBA(dc *gg.Context, c color.RGBA, alpha float64) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}
