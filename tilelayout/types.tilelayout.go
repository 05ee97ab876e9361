package tilelayout

import "fmt"

// The 88-key range: A0 through C8.
const (
	FirstKey = 21
	LastKey  = 108
	KeyCount = LastKey - FirstKey + 1

	whiteKeyCount = 52
)

// RenderConfig carries every parameter of a render session. Validate once at
// construction, then treat as read-only.
type RenderConfig struct {
	VideoWidth  int
	VideoHeight int
	DPI         int // doubles as the encoder bitrate in kbit/s
	FPS         int

	KBRatio      float64 // fraction of the video height given to the keyboard strip
	TileVelocity float64 // fall speed in pixels per second
	KeyColor     string  // SVG 1.1 color name
	ShowVelocity bool    // note velocity drives tile and key opacity

	LeadInSec  float64 // silent run-in before the first note
	LeadOutSec float64 // silent run-out after the last note
	SoundFont  string  // optional .sf2 path; enables the audio track
	Workers    int     // parallel frame rasterizers, defaulted when <= 0
}

// ConfigError reports a rejected RenderConfig parameter.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Param, e.Reason)
}

// Key is one of the 88 keyboard keys.
type Key struct {
	Pitch int
	X     float64
	Width float64
	Black bool
}

// Keyboard is the computed 88-key geometry in screen coordinates (y grows
// downward). Y is the hit line tiles fall toward.
type Keyboard struct {
	Keys           [KeyCount]Key
	Y              float64
	Height         float64
	WhiteKeyWidth  float64
	BlackKeyWidth  float64
	BlackKeyHeight float64
}

// Tile is the static geometry of one note's falling rectangle. Its vertical
// position at a given render time is computed per frame, not stored.
type Tile struct {
	Pitch  int
	X      float64
	Width  float64
	Height float64
	Start  float64 // hit time: when the leading edge reaches the keyboard line
	End    float64
	Alpha  float64
	Black  bool
}
