package stream

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

// ZipBundle appends named entries to a zip container written straight to
// the response; the archive is never materialized on disk.
type ZipBundle struct {
	zw     *zip.Writer
	fs     afero.Fs
	logger *logging.Logger
	names  map[string]int
}

// NewZipBundle sets archive download headers and starts streaming a zip
// container into the response body.
func (s *Streamer) NewZipBundle(c *gin.Context, filename string) *ZipBundle {
	setDownloadHeaders(c, "application/zip", filename)
	c.Status(http.StatusOK)
	return &ZipBundle{
		zw:     zip.NewWriter(c.Writer),
		fs:     s.ws.Fs(),
		logger: s.logger,
		names:  make(map[string]int),
	}
}

// uniqueName disambiguates duplicate entry names so every input keeps its
// own entry in the archive.
func (b *ZipBundle) uniqueName(name string) string {
	clean := SanitizeFilename(name)
	n := b.names[clean]
	b.names[clean] = n + 1
	if n == 0 {
		return clean
	}
	ext := filepath.Ext(clean)
	return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(clean, ext), n, ext)
}

// Add appends one named entry from a reader.
func (b *ZipBundle) Add(name string, r io.Reader) error {
	w, err := b.zw.Create(b.uniqueName(name))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	return err
}

// AddBytes appends one named entry from an in-memory result.
func (b *ZipBundle) AddBytes(name string, data []byte) error {
	w, err := b.zw.Create(b.uniqueName(name))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// AddFile appends one named entry read from a file on the workspace
// filesystem.
func (b *ZipBundle) AddFile(name, path string) error {
	f, err := b.fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Add(name, f)
}

// AddOrFallback appends the transformed bytes when the transform succeeded,
// and otherwise inserts the original file verbatim. One corrupt input must
// not abort the whole batch; the archive always ends with one entry per
// input.
func (b *ZipBundle) AddOrFallback(name string, data []byte, transformErr error, fallbackName, fallbackPath string) error {
	if transformErr == nil {
		return b.AddBytes(name, data)
	}
	b.logger.Warn("entry transform failed, inserting original",
		"entry", fallbackName, "error", transformErr)
	return b.AddFile(fallbackName, fallbackPath)
}

// Close flushes the zip central directory. Must be called once all entries
// are added.
func (b *ZipBundle) Close() error {
	return b.zw.Close()
}
