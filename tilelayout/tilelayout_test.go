package tilelayout

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tilefall/midiextract"
)

func testConfig() RenderConfig {
	return RenderConfig{
		VideoWidth:   1280,
		VideoHeight:  720,
		DPI:          2000,
		FPS:          60,
		KBRatio:      0.2,
		TileVelocity: 200,
		KeyColor:     "green",
	}
}

func TestValidateRejectsBadParams(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RenderConfig)
		param  string
	}{
		{"kb ratio one", func(c *RenderConfig) { c.KBRatio = 1.0 }, "KBRatio"},
		{"kb ratio negative", func(c *RenderConfig) { c.KBRatio = -0.1 }, "KBRatio"},
		{"zero width", func(c *RenderConfig) { c.VideoWidth = 0 }, "VideoWidth"},
		{"negative height", func(c *RenderConfig) { c.VideoHeight = -1 }, "VideoHeight"},
		{"zero dpi", func(c *RenderConfig) { c.DPI = 0 }, "DPI"},
		{"zero fps", func(c *RenderConfig) { c.FPS = 0 }, "FPS"},
		{"zero tile velocity", func(c *RenderConfig) { c.TileVelocity = 0 }, "TileVelocity"},
		{"negative lead-in", func(c *RenderConfig) { c.LeadInSec = -1 }, "LeadInSec"},
		{"negative lead-out", func(c *RenderConfig) { c.LeadOutSec = -0.5 }, "LeadOutSec"},
		{"unknown color", func(c *RenderConfig) { c.KeyColor = "nosuchcolor" }, "KeyColor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *ConfigError", err)
			}
			if ce.Param != tc.param {
				t.Errorf("Param = %q, want %q", ce.Param, tc.param)
			}
		})
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	cfg := testConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
	// KBRatio 0 is a legal degenerate keyboard.
	cfg.KBRatio = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with KBRatio 0 = %v, want nil", err)
	}
}

func TestColorIsCaseInsensitive(t *testing.T) {
	cfg := testConfig()
	cfg.KeyColor = "DarkOrange"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	c := cfg.Color()
	if c.R != 255 || c.G != 140 || c.B != 0 {
		t.Errorf("Color() = %v, want darkorange (255, 140, 0)", c)
	}
}

func TestKeyboardHas88SortedKeys(t *testing.T) {
	cfg := testConfig()
	kb := NewKeyboard(&cfg)

	blacks := 0
	for i := range kb.Keys {
		k := &kb.Keys[i]
		if k.Pitch != FirstKey+i {
			t.Fatalf("Keys[%d].Pitch = %d, want %d", i, k.Pitch, FirstKey+i)
		}
		if i > 0 && k.X < kb.Keys[i-1].X {
			t.Errorf("Keys[%d].X = %f not ascending", i, k.X)
		}
		if k.Black {
			blacks++
		}
	}
	if blacks != 36 {
		t.Errorf("black key count = %d, want 36", blacks)
	}

	// Spot checks against the real keyboard: A0 white, A#0 black, C4 white.
	if kb.KeyFor(21).Black || !kb.KeyFor(22).Black || kb.KeyFor(60).Black {
		t.Error("black/white assignment does not match the piano layout")
	}
	if kb.KeyFor(20) != nil || kb.KeyFor(109) != nil {
		t.Error("KeyFor should reject pitches outside 21..108")
	}
}

func TestWhiteKeysTileTheWidth(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("white key widths sum to the video width", prop.ForAll(
		func(width int) bool {
			cfg := testConfig()
			cfg.VideoWidth = width
			kb := NewKeyboard(&cfg)

			var sum float64
			var prevRight float64
			for i := range kb.Keys {
				k := &kb.Keys[i]
				if k.Black {
					continue
				}
				if math.Abs(k.X-prevRight) > 1e-6 {
					return false // gap or overlap between white keys
				}
				prevRight = k.X + k.Width
				sum += k.Width
			}
			return math.Abs(sum-float64(width)) < 1e-6
		},
		gen.IntRange(52, 7680),
	))

	properties.TestingRun(t)
}

func TestTileHeightProportionalToDuration(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("doubling the duration doubles the height", prop.ForAll(
		func(duration, velocity float64) bool {
			cfg := testConfig()
			cfg.TileVelocity = velocity
			kb := NewKeyboard(&cfg)

			notes := []midiextract.NoteEvent{
				{Pitch: 60, Start: 1, End: 1 + duration, Velocity: 100},
				{Pitch: 60, Start: 1, End: 1 + 2*duration, Velocity: 100},
			}
			tiles := BuildTiles(notes, kb, &cfg)
			if len(tiles) != 2 {
				return false
			}
			single, double := tiles[0].Height, tiles[1].Height
			return math.Abs(double-2*single) < 1e-6*math.Max(1, double) &&
				math.Abs(single-duration*velocity) < 1e-6*math.Max(1, single)
		},
		gen.Float64Range(0.01, 30),
		gen.Float64Range(10, 2000),
	))

	properties.TestingRun(t)
}

func TestBuildTilesSkipsOutOfRangePitches(t *testing.T) {
	cfg := testConfig()
	kb := NewKeyboard(&cfg)
	notes := []midiextract.NoteEvent{
		{Pitch: 20, Start: 0, End: 1},
		{Pitch: 60, Start: 0, End: 1},
		{Pitch: 109, Start: 0, End: 1},
	}
	tiles := BuildTiles(notes, kb, &cfg)
	if len(tiles) != 1 || tiles[0].Pitch != 60 {
		t.Fatalf("tiles = %+v, want only pitch 60", tiles)
	}
}

func TestTileAlphaTracksVelocity(t *testing.T) {
	cfg := testConfig()
	kb := NewKeyboard(&cfg)
	notes := []midiextract.NoteEvent{{Pitch: 60, Start: 0, End: 1, Velocity: 100}}

	tiles := BuildTiles(notes, kb, &cfg)
	if tiles[0].Alpha != 1.0 {
		t.Errorf("Alpha = %f, want 1.0 when ShowVelocity is off", tiles[0].Alpha)
	}

	cfg.ShowVelocity = true
	tiles = BuildTiles(notes, kb, &cfg)
	if math.Abs(tiles[0].Alpha-100.0/127) > 1e-9 {
		t.Errorf("Alpha = %f, want 100/127", tiles[0].Alpha)
	}
}

func TestActiveIntervalBoundaries(t *testing.T) {
	tile := Tile{Start: 1.0, End: 2.0}
	cases := []struct {
		t    float64
		want bool
	}{
		{0.999999, false},
		{1.0, true}, // inclusive start
		{1.5, true},
		{2.0, false}, // exclusive end
		{2.000001, false},
	}
	for _, tc := range cases {
		if got := tile.Active(tc.t); got != tc.want {
			t.Errorf("Active(%f) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestActiveTilesPrefersFirstInOrder(t *testing.T) {
	tiles := []Tile{
		{Pitch: 60, Start: 0, End: 2, Alpha: 0.5},
		{Pitch: 60, Start: 1, End: 3, Alpha: 0.9},
		{Pitch: 64, Start: 0, End: 1},
	}
	active := ActiveTiles(tiles, 1.5)
	if len(active) != 1 {
		t.Fatalf("active = %v, want only pitch 60", active)
	}
	if active[60].Alpha != 0.5 {
		t.Errorf("picked tile Alpha = %f, want the earlier tile (0.5)", active[60].Alpha)
	}
}

// The single-note scenario: pitch 60 for one second at velocity 100 with a
// tile velocity of 500 px/s.
func TestSingleNoteGeometry(t *testing.T) {
	cfg := testConfig()
	cfg.TileVelocity = 500
	kb := NewKeyboard(&cfg)

	notes := []midiextract.NoteEvent{{Pitch: 60, Start: 0, End: 1, Velocity: 100}}
	tiles := BuildTiles(notes, kb, &cfg)
	if len(tiles) != 1 {
		t.Fatalf("got %d tiles, want 1", len(tiles))
	}
	tile := &tiles[0]
	if math.Abs(tile.Height-500) > 1e-9 {
		t.Errorf("Height = %f, want 500", tile.Height)
	}

	// At the hit time the leading edge sits exactly on the keyboard line.
	if got := tile.LeadingEdge(kb, &cfg, 0); math.Abs(got-kb.Y) > 1e-9 {
		t.Errorf("LeadingEdge(0) = %f, want %f", got, kb.Y)
	}
	// One second earlier it is a full tile height above the line.
	if got := tile.LeadingEdge(kb, &cfg, -1); math.Abs(got-(kb.Y-500)) > 1e-9 {
		t.Errorf("LeadingEdge(-1) = %f, want %f", got, kb.Y-500)
	}
	// At the note end the trailing edge has reached the line: nothing left.
	if got := tile.LeadingEdge(kb, &cfg, 1) - tile.Height; math.Abs(got-kb.Y) > 1e-9 {
		t.Errorf("trailing edge at end = %f, want %f", got, kb.Y)
	}
}
