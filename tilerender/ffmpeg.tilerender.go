package tilerender

import (
	"fmt"
	"os/exec"
	"strings"

	"tilefall/tilelayout"
)

func createVideoFromFrames(framesDir, audioPath, outputPath string, cfg *tilelayout.RenderConfig, totalSeconds float64) error {
	cmdArgs := []string{
		"-framerate", fmt.Sprintf("%d", cfg.FPS),
		"-i", framesDir + "/fr%05d.png",
	}
	if audioPath != "" {
		cmdArgs = append(cmdArgs,
			"-itsoffset", fmt.Sprintf("%fs", cfg.LeadInSec),
			"-i", audioPath,
			"-map", "0:v", "-map", "1:a",
		)
	}
	cmdArgs = append(cmdArgs,
		"-preset", "veryfast",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-tune", "animation",
		"-b:v", fmt.Sprintf("%dk", cfg.DPI),
		"-y",
		"-t", fmt.Sprintf("%f", totalSeconds),
		outputPath,
	)

	cmd := exec.Command("ffmpeg", cmdArgs...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &IOError{
			Op:   "encode",
			Path: outputPath,
			Err: fmt.Errorf("ffmpeg %s: %w: %s",
				strings.Join(cmdArgs, " "), err, strings.TrimSpace(string(out))),
		}
	}
	return nil
}
