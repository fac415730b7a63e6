package convert

import (
	"context"
	"fmt"
)

// Transcode converts audio/video between the supported container formats.
// The target format is inferred by ffmpeg from the output path's extension.
// presetName optionally selects extra output settings from the preset
// library; an empty or unknown name transcodes with ffmpeg defaults.
func (c *Converter) Transcode(ctx context.Context, inputPath, targetExt, presetName string) (string, error) {
	outputPath, err := c.ws.Allocate("transcoded", NormalizeExt(targetExt))
	if err != nil {
		return "", err
	}

	args := []string{"-y", "-i", inputPath}
	if preset, ok := c.presets.Get(presetName); ok {
		args = append(args, preset.Args()...)
	}
	args = append(args, outputPath)

	if _, err := c.runner.Run(ctx, c.tools.FFmpeg, args); err != nil {
		c.ws.Release(outputPath)
		return "", fmt.Errorf("transcode to %s: %w", NormalizeExt(targetExt), err)
	}
	return outputPath, nil
}
