package convert

import (
	"context"
	"fmt"
)

// Ghostscript distiller presets keyed by the public compression level.
// Unrecognized levels fall back to ebook.
var distillerPresets = map[string]string{
	"low":    "screen",
	"medium": "ebook",
	"high":   "printer",
}

// DistillerPreset maps a compression level to a pdfwrite quality preset.
func DistillerPreset(level string) string {
	if preset, ok := distillerPresets[level]; ok {
		return preset
	}
	return "ebook"
}

// DistillPDF reprocesses a PDF through ghostscript's pdfwrite device at the
// quality preset for level. It returns the produced output path; on failure
// the output artifact is released before returning.
func (c *Converter) DistillPDF(ctx context.Context, inputPath, level string) (string, error) {
	outputPath, err := c.ws.Allocate("distilled", "pdf")
	if err != nil {
		return "", err
	}

	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/" + DistillerPreset(level),
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + outputPath,
		inputPath,
	}

	if _, err := c.runner.Run(ctx, c.tools.Ghostscript, args); err != nil {
		c.ws.Release(outputPath)
		return "", fmt.Errorf("pdf distillation: %w", err)
	}
	return outputPath, nil
}
