package tilelayout

import "sort"

// Reference black key geometry, in 22.15ths of a white key width. The offset
// pattern repeats every seven white keys starting from A0; a zero entry means
// no black key follows that white key.
var blackKeyPattern = [7]float64{16.69, 0, 13.97, 16.79, 0, 12.83, 14.76}

const (
	patternUnit         = 22.15
	blackKeyWidthRatio  = 11.0 / patternUnit
	blackKeyHeightRatio = 80.0 / 126.27
)

// NewKeyboard computes the 88-key layout for the configured video geometry.
// The 52 white keys tile the full video width exactly, no gaps or overlaps.
func NewKeyboard(cfg *RenderConfig) *Keyboard {
	w := float64(cfg.VideoWidth)
	h := float64(cfg.VideoHeight)

	kb := &Keyboard{}
	kb.Height = cfg.KBRatio * h
	kb.Y = h - kb.Height
	kb.WhiteKeyWidth = w / whiteKeyCount
	kb.BlackKeyWidth = kb.WhiteKeyWidth * blackKeyWidthRatio
	kb.BlackKeyHeight = kb.Height * blackKeyHeightRatio

	type rect struct {
		x, width float64
		black    bool
	}
	rects := make([]rect, 0, KeyCount)
	for i := 0; i < whiteKeyCount; i++ {
		rects = append(rects, rect{x: float64(i) * kb.WhiteKeyWidth, width: kb.WhiteKeyWidth})
	}
	for i := 0; i < whiteKeyCount-1; i++ {
		offset := blackKeyPattern[i%len(blackKeyPattern)]
		if offset == 0 {
			continue
		}
		x := (float64(i) + offset/patternUnit) * kb.WhiteKeyWidth
		rects = append(rects, rect{x: x, width: kb.BlackKeyWidth, black: true})
	}

	// Key rectangles sorted by x position line up with the ascending MIDI
	// pitches 21..108.
	sort.SliceStable(rects, func(i, j int) bool { return rects[i].x < rects[j].x })
	for i, r := range rects {
		kb.Keys[i] = Key{Pitch: FirstKey + i, X: r.x, Width: r.width, Black: r.black}
	}
	return kb
}

// KeyFor returns the key for a MIDI pitch, or nil when the pitch falls
// outside the 88-key range.
func (kb *Keyboard) KeyFor(pitch int) *Key {
	if pitch < FirstKey || pitch > LastKey {
		return nil
	}
	return &kb.Keys[pitch-FirstKey]
}
