package convert

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/filebridge/filebridge/pkg/tempfile"
	"github.com/filebridge/filebridge/pkg/toolrunner"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConverter(t *testing.T) (*Converter, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	logger := logging.GetLogger()
	ws := tempfile.NewWorkspace(fs, "/work", logger)
	runner := toolrunner.NewRunner(1, logger)
	return New(ws, runner, Tools{}, nil, logger), fs
}

func writeTestPNG(t *testing.T, fs afero.Fs, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 50, B: 50, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	require.NoError(t, afero.WriteFile(fs, path, buf.Bytes(), 0o644))
}

func TestRecompressImage(t *testing.T) {
	c, fs := newTestConverter(t)
	writeTestPNG(t, fs, "/work/in.png", 32, 24)

	t.Run("PNGToJPEG", func(t *testing.T) {
		out, err := c.RecompressImage("/work/in.png", "png", "jpg", 60)
		require.NoError(t, err)

		img, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 32, img.Bounds().Dx())
	})

	t.Run("PNGToWebP", func(t *testing.T) {
		out, err := c.RecompressImage("/work/in.png", "png", "webp", 60)
		require.NoError(t, err)
		// webp container magic: RIFF....WEBP
		require.Greater(t, len(out), 12)
		assert.Equal(t, "RIFF", string(out[:4]))
		assert.Equal(t, "WEBP", string(out[8:12]))
	})

	t.Run("UnknownTarget", func(t *testing.T) {
		_, err := c.RecompressImage("/work/in.png", "png", "tiff", 60)
		assert.Error(t, err)
	})

	t.Run("MissingInput", func(t *testing.T) {
		_, err := c.RecompressImage("/work/nope.png", "png", "jpg", 60)
		assert.Error(t, err)
	})

	t.Run("CorruptInput", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/work/bad.png", []byte("not an image"), 0o644))
		_, err := c.RecompressImage("/work/bad.png", "png", "jpg", 60)
		assert.Error(t, err)
	})
}

func TestResizeImage(t *testing.T) {
	c, fs := newTestConverter(t)
	writeTestPNG(t, fs, "/work/in.png", 64, 64)

	out, err := c.ResizeImage("/work/in.png", "png", 16, 8)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestBlurImage(t *testing.T) {
	c, fs := newTestConverter(t)
	writeTestPNG(t, fs, "/work/in.png", 20, 20)

	out, err := c.BlurImage("/work/in.png", "png", 0)
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}
