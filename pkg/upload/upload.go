package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/filebridge/filebridge/pkg/tempfile"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// ErrNoFile is returned when a multipart request carries no usable part.
// Handlers map it to a 400 response.
var ErrNoFile = errors.New("no file uploaded")

// sniffLen bounds how many leading bytes are read back for MIME detection.
const sniffLen = 3072

// Artifact describes one uploaded payload persisted to temp storage. The
// original filename is a display label only; every filesystem path involved
// is workspace-generated.
type Artifact struct {
	TempPath     string
	OriginalName string
	Size         int64
	MIMEHint     string
}

// Ext returns the artifact's source extension (lowercase, no dot), derived
// from the original filename.
func (a Artifact) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(a.OriginalName), "."))
}

// OutputName derives a download label from the original name: base name
// plus suffix plus the new extension.
func (a Artifact) OutputName(suffix, newExt string) string {
	base := filepath.Base(a.OriginalName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "file"
	}
	return base + suffix + "." + strings.TrimPrefix(newExt, ".")
}

// Ingestor streams multipart file parts onto a workspace.
type Ingestor struct {
	ws     *tempfile.Workspace
	logger *logging.Logger
}

func NewIngestor(ws *tempfile.Workspace, logger *logging.Logger) *Ingestor {
	return &Ingestor{ws: ws, logger: logger}
}

// Single ingests one part from the named field. Missing part → ErrNoFile.
func (i *Ingestor) Single(c *gin.Context, field string) (Artifact, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return Artifact{}, ErrNoFile
	}
	return i.save(fileHeader)
}

// Many ingests every part of the named array field, accepting both the
// "field[]" and bare "field" spellings. Zero parts → ErrNoFile.
func (i *Ingestor) Many(c *gin.Context, field string) ([]Artifact, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, ErrNoFile
	}

	headers := form.File[field+"[]"]
	if len(headers) == 0 {
		headers = form.File[field]
	}
	if len(headers) == 0 {
		return nil, ErrNoFile
	}

	artifacts := make([]Artifact, 0, len(headers))
	for _, fh := range headers {
		artifact, err := i.save(fh)
		if err != nil {
			// Release everything ingested so far; partial ingestion
			// must not leak temp files.
			for _, a := range artifacts {
				i.ws.Release(a.TempPath)
			}
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}

// save streams the part to a workspace-allocated path and sniffs its MIME
// type from the leading bytes. Large payloads are never buffered whole.
func (i *Ingestor) save(fh *multipart.FileHeader) (Artifact, error) {
	src, err := fh.Open()
	if err != nil {
		return Artifact{}, fmt.Errorf("open uploaded part: %w", err)
	}
	defer src.Close()

	ext := strings.TrimPrefix(filepath.Ext(fh.Filename), ".")
	path, err := i.ws.Allocate("upload", ext)
	if err != nil {
		return Artifact{}, err
	}

	dst, err := i.ws.Fs().Create(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("create temp file: %w", err)
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		i.ws.Release(path)
		return Artifact{}, fmt.Errorf("persist upload: %w", err)
	}

	hint := i.sniff(path)
	i.logger.Debug("ingested upload",
		"name", fh.Filename, "size", humanize.Bytes(uint64(size)), "mime", hint)

	return Artifact{
		TempPath:     path,
		OriginalName: fh.Filename,
		Size:         size,
		MIMEHint:     hint,
	}, nil
}

func (i *Ingestor) sniff(path string) string {
	f, err := i.ws.Fs().Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, _ := io.ReadFull(f, head)
	if n == 0 {
		return ""
	}
	return mimetype.Detect(head[:n]).String()
}
