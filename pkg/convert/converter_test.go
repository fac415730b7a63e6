package convert

import (
	"context"
	"strings"
	"testing"

	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/filebridge/filebridge/pkg/tempfile"
	"github.com/filebridge/filebridge/pkg/toolrunner"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTools substitutes coreutils for the real binaries so the argument
// flow can be exercised without ghostscript/ffmpeg/libreoffice installed.
func fakeTools(bin string) Tools {
	tool := toolrunner.Tool{Name: "fake", Bin: bin}
	return Tools{Ghostscript: tool, FFmpeg: tool, LibreOffice: tool}
}

func newFakeConverter(t *testing.T, bin string) (*Converter, afero.Fs) {
	t.Helper()
	fs := afero.NewOsFs()
	dir := t.TempDir()
	logger := logging.GetLogger()
	ws := tempfile.NewWorkspace(fs, dir, logger)
	runner := toolrunner.NewRunner(1, logger)
	return New(ws, runner, fakeTools(bin), nil, logger), fs
}

func TestDistillPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		c, _ := newFakeConverter(t, "true")
		out, err := c.DistillPDF(ctx, "/in/doc.pdf", "low")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, ".pdf"))
	})

	t.Run("ToolFailureReleasesOutput", func(t *testing.T) {
		c, fs := newFakeConverter(t, "false")
		_, err := c.DistillPDF(ctx, "/in/doc.pdf", "high")
		require.Error(t, err)

		// No orphan output artifact may remain.
		infos, err := afero.ReadDir(fs, c.ws.Dir())
		require.NoError(t, err)
		assert.Empty(t, infos)
	})
}

func TestTranscode(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		c, _ := newFakeConverter(t, "true")
		out, err := c.Transcode(ctx, "/in/clip.mp4", "MP3", "")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, ".mp3"))
	})

	t.Run("Failure", func(t *testing.T) {
		c, fs := newFakeConverter(t, "false")
		_, err := c.Transcode(ctx, "/in/clip.mp4", "wav", "")
		require.Error(t, err)

		infos, err := afero.ReadDir(fs, c.ws.Dir())
		require.NoError(t, err)
		assert.Empty(t, infos)
	})
}

func TestConvertDocumentDerivesOutputName(t *testing.T) {
	c, _ := newFakeConverter(t, "true")

	out, err := c.ConvertDocument(context.Background(), "/in/report-abc123.docx", "pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "/report-abc123.pdf"), "got %s", out)
}
