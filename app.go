package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"tilefall/tilelayout"
	"tilefall/tilerender"
)

func main() {
	cmd := &cli.Command{
		Name:  "tilefall",
		Usage: "render a falling piano tiles video from a midi file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "midi", Usage: "input midi file", Required: true},
			&cli.StringFlag{Name: "out", Usage: "output video path (defaults to the midi name with .mp4)"},
			&cli.IntFlag{Name: "width", Value: 1280, Usage: "video width in pixels"},
			&cli.IntFlag{Name: "height", Value: 720, Usage: "video height in pixels"},
			&cli.IntFlag{Name: "dpi", Value: 2000, Usage: "encoder bitrate in kbit/s"},
			&cli.IntFlag{Name: "fps", Value: 60, Usage: "output frame rate"},
			&cli.FloatFlag{Name: "kb-ratio", Value: 0.2, Usage: "fraction of the height given to the keyboard, in [0,1)"},
			&cli.FloatFlag{Name: "tile-velocity", Value: 200, Usage: "tile fall speed in pixels per second"},
			&cli.StringFlag{Name: "color", Value: "green", Usage: "tile and key highlight color name"},
			&cli.BoolFlag{Name: "show-velocity", Usage: "note velocity drives tile opacity"},
			&cli.FloatFlag{Name: "lead-in", Usage: "seconds of run-in before the first note"},
			&cli.FloatFlag{Name: "lead-out", Usage: "seconds of run-out after the last note"},
			&cli.StringFlag{Name: "soundfont", Usage: "sf2 file for the audio track (silent video without it)"},
			&cli.IntFlag{Name: "workers", Usage: "parallel frame rasterizers (0 = default)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "progress output"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, c *cli.Command) error {
	cfg := tilelayout.RenderConfig{
		VideoWidth:   c.Int("width"),
		VideoHeight:  c.Int("height"),
		DPI:          c.Int("dpi"),
		FPS:          c.Int("fps"),
		KBRatio:      c.Float("kb-ratio"),
		TileVelocity: c.Float("tile-velocity"),
		KeyColor:     c.String("color"),
		ShowVelocity: c.Bool("show-velocity"),
		LeadInSec:    c.Float("lead-in"),
		LeadOutSec:   c.Float("lead-out"),
		SoundFont:    c.String("soundfont"),
		Workers:      c.Int("workers"),
	}

	session, err := tilerender.New(cfg)
	if err != nil {
		return err
	}

	verbose := c.Bool("verbose")
	if err := session.LoadMidiFile(c.String("midi"), verbose); err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = tilerender.OutputNameFor(c.String("midi"))
	}
	return session.Render(ctx, out, verbose)
}
