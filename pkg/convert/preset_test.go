package convert

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetYAML = `
presets:
  podcast:
    audio_codec: libmp3lame
    audio_bitrate: 128k
  web-720p:
    video_codec: libx264
    video_bitrate: 2500k
    extra_args: ["-movflags", "+faststart"]
`

func TestLoadPresetFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/presets.yaml", []byte(presetYAML), 0o644))

	lib, err := LoadPresetFile(fs, "/etc/presets.yaml")
	require.NoError(t, err)

	podcast, ok := lib.Get("podcast")
	require.True(t, ok)
	assert.Equal(t, []string{"-c:a", "libmp3lame", "-b:a", "128k"}, podcast.Args())

	web, ok := lib.Get("web-720p")
	require.True(t, ok)
	assert.Equal(t, []string{"-c:v", "libx264", "-b:v", "2500k", "-movflags", "+faststart"}, web.Args())

	_, ok = lib.Get("missing")
	assert.False(t, ok)
}

func TestLoadPresetFileErrors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadPresetFile(fs, "/etc/absent.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/etc/bad.yaml", []byte("presets: ["), 0o644))
	_, err = LoadPresetFile(fs, "/etc/bad.yaml")
	assert.Error(t, err)
}

func TestEmptyPresetLibrary(t *testing.T) {
	lib := EmptyPresetLibrary()
	_, ok := lib.Get("anything")
	assert.False(t, ok)
	_, ok = lib.Get("")
	assert.False(t, ok)
}
