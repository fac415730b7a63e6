package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// ConvertDocument converts a document-family file through LibreOffice in
// headless mode. LibreOffice writes into the output directory under the
// input's base name, so the produced path is derived rather than passed.
func (c *Converter) ConvertDocument(ctx context.Context, inputPath, targetExt string) (string, error) {
	target := NormalizeExt(targetExt)

	args := []string{
		"--headless",
		"--convert-to", target,
		"--outdir", c.ws.Dir(),
		inputPath,
	}

	if _, err := c.runner.Run(ctx, c.tools.LibreOffice, args); err != nil {
		return "", fmt.Errorf("document conversion: %w", err)
	}

	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	outputPath := filepath.Join(c.ws.Dir(), base+"."+target)
	return outputPath, nil
}
