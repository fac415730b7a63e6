package stream

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/filebridge/filebridge/pkg/tempfile"
	"github.com/gin-gonic/gin"
)

// Streamer emits conversion results as HTTP downloads. On-disk results are
// released only after the response stream has fully drained or errored.
type Streamer struct {
	ws     *tempfile.Workspace
	logger *logging.Logger
}

func New(ws *tempfile.Workspace, logger *logging.Logger) *Streamer {
	return &Streamer{ws: ws, logger: logger}
}

// SanitizeFilename strips characters that could break out of a
// Content-Disposition header or smuggle path segments. The result is a
// display label only.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"\r", "", "\n", "", `"`, "", "/", "_", "\\", "_", "\x00", "",
	)
	clean := strings.TrimSpace(replacer.Replace(name))
	if clean == "" || clean == "." || clean == ".." {
		return "download"
	}
	return clean
}

func setDownloadHeaders(c *gin.Context, contentType, filename string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", SanitizeFilename(filename)))
}

// SendBuffer writes an in-memory result with download headers.
func (s *Streamer) SendBuffer(c *gin.Context, data []byte, contentType, filename string) {
	setDownloadHeaders(c, contentType, filename)
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Status(http.StatusOK)
	if _, err := c.Writer.Write(data); err != nil {
		s.logger.Warn("buffer stream aborted", "error", err)
	}
}

// SendFile streams an on-disk result and releases the temp artifact after
// the copy finishes, whether it drained or errored. Releasing here, not at
// handler return, keeps the cleanup behind the stream.
func (s *Streamer) SendFile(c *gin.Context, path, contentType, filename string) {
	defer s.ws.Release(path)

	f, err := s.ws.Fs().Open(path)
	if err != nil {
		s.logger.Error("failed to open result file", "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
		return
	}
	defer f.Close()

	setDownloadHeaders(c, contentType, filename)
	if info, err := f.Stat(); err == nil {
		c.Header("Content-Length", strconv.FormatInt(info.Size(), 10))
		s.logger.Debug("streaming result", "size", humanize.Bytes(uint64(info.Size())))
	}

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, f); err != nil {
		s.logger.Warn("file stream aborted", "path", path, "error", err)
	}
}
