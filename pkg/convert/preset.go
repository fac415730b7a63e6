package convert

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Preset describes reusable ffmpeg output settings.
type Preset struct {
	Name         string
	VideoCodec   string
	AudioCodec   string
	VideoBitrate string
	AudioBitrate string
	ExtraArgs    []string
}

// Args returns the ffmpeg arguments encoded by the preset.
func (p Preset) Args() []string {
	args := make([]string, 0, 8+len(p.ExtraArgs))
	if p.VideoCodec != "" {
		args = append(args, "-c:v", p.VideoCodec)
	}
	if p.AudioCodec != "" {
		args = append(args, "-c:a", p.AudioCodec)
	}
	if p.VideoBitrate != "" {
		args = append(args, "-b:v", p.VideoBitrate)
	}
	if p.AudioBitrate != "" {
		args = append(args, "-b:a", p.AudioBitrate)
	}
	args = append(args, p.ExtraArgs...)
	return args
}

// PresetLibrary stores named presets loaded from disk.
type PresetLibrary struct {
	presets map[string]Preset
}

// EmptyPresetLibrary creates a library with no presets.
func EmptyPresetLibrary() *PresetLibrary {
	return &PresetLibrary{presets: map[string]Preset{}}
}

// Get retrieves a preset by name.
func (l *PresetLibrary) Get(name string) (Preset, bool) {
	if l == nil || name == "" {
		return Preset{}, false
	}
	preset, ok := l.presets[name]
	return preset, ok
}

// LoadPresetFile reads presets from a YAML file.
func LoadPresetFile(fs afero.Fs, path string) (*PresetLibrary, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("load preset file: %w", err)
	}

	type rawPreset struct {
		VideoCodec   string   `yaml:"video_codec"`
		AudioCodec   string   `yaml:"audio_codec"`
		VideoBitrate string   `yaml:"video_bitrate"`
		AudioBitrate string   `yaml:"audio_bitrate"`
		ExtraArgs    []string `yaml:"extra_args"`
	}
	var payload struct {
		Presets map[string]rawPreset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse preset file: %w", err)
	}

	presets := make(map[string]Preset, len(payload.Presets))
	for name, rp := range payload.Presets {
		presets[name] = Preset{
			Name:         name,
			VideoCodec:   rp.VideoCodec,
			AudioCodec:   rp.AudioCodec,
			VideoBitrate: rp.VideoBitrate,
			AudioBitrate: rp.AudioBitrate,
			ExtraArgs:    append([]string(nil), rp.ExtraArgs...),
		}
	}
	return &PresetLibrary{presets: presets}, nil
}
