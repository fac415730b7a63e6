package tempfile

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Workspace hands out collision-resistant paths inside a dedicated working
// directory and removes them when the owning request is done. Every path it
// allocates is expected to be released exactly once; no temp artifact may
// outlive its request.
type Workspace struct {
	fs      afero.Fs
	baseDir string
	logger  *logging.Logger
}

// NewWorkspace binds a workspace to a filesystem and base directory. The
// directory is created lazily on first Allocate.
func NewWorkspace(fs afero.Fs, baseDir string, logger *logging.Logger) *Workspace {
	return &Workspace{fs: fs, baseDir: baseDir, logger: logger}
}

// Fs exposes the underlying filesystem so collaborators (upload ingestion,
// streaming) read and write through the same abstraction.
func (w *Workspace) Fs() afero.Fs {
	return w.fs
}

// Dir returns the working directory the workspace allocates into.
func (w *Workspace) Dir() string {
	return w.baseDir
}

// Allocate returns a unique path for a new temp artifact. The extension is
// optional; when present it is appended so external tools that infer output
// formats from extensions keep working.
func (w *Workspace) Allocate(prefix, ext string) (string, error) {
	if err := w.fs.MkdirAll(w.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir %s: %w", w.baseDir, err)
	}

	name := prefix + "-" + uuid.NewString()
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	return filepath.Join(w.baseDir, name), nil
}

// Release removes a temp artifact. Deletion failures are logged and
// swallowed: a failed cleanup must never fail a response already in flight.
func (w *Workspace) Release(path string) {
	if path == "" {
		return
	}
	if err := w.fs.Remove(path); err != nil {
		w.logger.Warn("failed to remove temp artifact", "path", path, "error", err)
	}
}

// ReleaseAll releases every given path, tolerating empty entries.
func (w *Workspace) ReleaseAll(paths ...string) {
	for _, p := range paths {
		w.Release(p)
	}
}

// Sweep removes workspace entries older than maxAge. Run at startup so
// artifacts orphaned by a crash do not accumulate across restarts.
func (w *Workspace) Sweep(maxAge time.Duration) {
	infos, err := afero.ReadDir(w.fs, w.baseDir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxAge)
	for _, info := range infos {
		if info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		stale := filepath.Join(w.baseDir, info.Name())
		if err := w.fs.Remove(stale); err != nil {
			w.logger.Warn("failed to sweep stale artifact", "path", stale, "error", err)
		} else {
			w.logger.Debug("swept stale artifact", "path", stale)
		}
	}
}
