package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/filebridge/filebridge/pkg/tempfile"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// pngHeader is enough of a PNG signature for MIME sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func multipartContext(t *testing.T, field string, names ...string) *gin.Context {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range names {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(pngHeader)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req
	return c
}

func newTestIngestor(t *testing.T) (*Ingestor, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	ws := tempfile.NewWorkspace(fs, "/work", logging.GetLogger())
	return NewIngestor(ws, logging.GetLogger()), fs
}

func TestSingle(t *testing.T) {
	ing, fs := newTestIngestor(t)

	t.Run("SavesToWorkspace", func(t *testing.T) {
		c := multipartContext(t, "file", "photo.PNG")
		artifact, err := ing.Single(c, "file")
		require.NoError(t, err)

		exists, err := afero.Exists(fs, artifact.TempPath)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "photo.PNG", artifact.OriginalName)
		assert.Equal(t, int64(len(pngHeader)), artifact.Size)
		assert.Equal(t, "png", artifact.Ext())
		assert.Equal(t, "image/png", artifact.MIMEHint)

		// The stored path is workspace-generated, not the client name.
		assert.NotContains(t, artifact.TempPath, "photo")
	})

	t.Run("MissingPart", func(t *testing.T) {
		c := multipartContext(t, "other", "photo.png")
		_, err := ing.Single(c, "file")
		assert.ErrorIs(t, err, ErrNoFile)
	})
}

func TestMany(t *testing.T) {
	ing, _ := newTestIngestor(t)

	t.Run("ArrayField", func(t *testing.T) {
		c := multipartContext(t, "images[]", "a.png", "b.png", "c.png")
		artifacts, err := ing.Many(c, "images")
		require.NoError(t, err)
		assert.Len(t, artifacts, 3)
	})

	t.Run("BareField", func(t *testing.T) {
		c := multipartContext(t, "images", "a.png")
		artifacts, err := ing.Many(c, "images")
		require.NoError(t, err)
		assert.Len(t, artifacts, 1)
	})

	t.Run("NoFiles", func(t *testing.T) {
		c := multipartContext(t, "unrelated", "a.png")
		_, err := ing.Many(c, "images")
		assert.ErrorIs(t, err, ErrNoFile)
	})
}

func TestOutputName(t *testing.T) {
	a := Artifact{OriginalName: "holiday photo.jpeg"}
	assert.Equal(t, "holiday photo-compressed.jpg", a.OutputName("-compressed", "jpg"))

	b := Artifact{OriginalName: ".hidden"}
	assert.Equal(t, "file.pdf", b.OutputName("", "pdf"))
}
