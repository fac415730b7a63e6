package proxy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/spf13/afero"
)

// RemoveBackground posts the image to the background-removal API and
// returns the resulting PNG bytes. The API key is relayed as-is; a missing
// key fails remotely rather than locally, matching the upstream contract.
func (c *Client) RemoveBackground(ctx context.Context, fs afero.Fs, imagePath string) ([]byte, error) {
	f, err := fs.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image_file", "image.png")
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy image into request: %w", err)
	}
	if err := writer.WriteField("size", "auto"); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.RemoveBg, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Api-Key", c.removeBgKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("remove-bg unreachable", "error", err)
		return nil, fmt.Errorf("upstream unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("remove-bg rejected request", "status", resp.StatusCode, "body", string(detail))
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
