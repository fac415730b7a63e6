package environment

import (
	"path/filepath"
	"strconv"

	env "github.com/Netflix/go-env"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// Environment holds process-wide configuration loaded once at startup.
// It is read-only after NewEnvironment returns; handlers receive it by
// reference and never re-read the OS environment per request.
type Environment struct {
	Port    string `env:"PORT,default=5000"`
	WorkDir string `env:"FILEBRIDGE_WORK_DIR"`

	// External tool binaries. Overridable so deployments can pin
	// absolute paths instead of relying on PATH lookup.
	GhostscriptBin     string `env:"GHOSTSCRIPT_BIN,default=gs"`
	FFmpegBin          string `env:"FFMPEG_BIN,default=ffmpeg"`
	LibreOfficeBin     string `env:"LIBREOFFICE_BIN,default=soffice"`
	MediaDownloaderBin string `env:"MEDIA_DOWNLOADER_BIN,default=yt-dlp"`

	// Per-tool cap on concurrently spawned external processes.
	ToolConcurrency int `env:"TOOL_CONCURRENCY,default=4"`

	// Upper bound for multipart request bodies, in megabytes.
	MaxUploadMB int64 `env:"MAX_UPLOAD_MB,default=50"`

	// Transcode preset file (optional, yaml). Empty disables presets.
	PresetFile string `env:"FFMPEG_PRESET_FILE"`

	// Third-party credentials. All optional: absence degrades the
	// dependent endpoint instead of failing startup.
	RazorpayKeyID     string `env:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `env:"RAZORPAY_KEY_SECRET"`
	RemoveBgAPIKey    string `env:"REMOVE_BG_API_KEY"`

	// Upstream API overrides. Empty values keep the built-in defaults.
	YouTubeAPIURL   string `env:"YOUTUBE_API_URL"`
	InstagramAPIURL string `env:"INSTAGRAM_API_URL"`
	TikTokAPIURL    string `env:"TIKTOK_API_URL"`
	FacebookAPIURL  string `env:"FACEBOOK_API_URL"`
	RemoveBgAPIURL  string `env:"REMOVE_BG_API_URL"`

	Extras env.EnvSet
}

// NewEnvironment loads configuration from a .env file (when present in the
// working directory) and the OS environment. Absent values fall back to the
// struct tag defaults.
func NewEnvironment(fs afero.Fs) (*Environment, error) {
	// godotenv never overrides variables already exported by the OS.
	if exists, _ := afero.Exists(fs, ".env"); exists {
		_ = godotenv.Load()
	}

	environment := &Environment{}
	extras, err := env.UnmarshalFromEnviron(environment)
	if err != nil {
		return nil, err
	}
	environment.Extras = extras

	if environment.WorkDir == "" {
		environment.WorkDir = filepath.Join(xdg.CacheHome, "filebridge")
	}
	if environment.ToolConcurrency < 1 {
		environment.ToolConcurrency = 1
	}

	return environment, nil
}

// RazorpayConfigured reports whether both payment credentials are present.
func (e *Environment) RazorpayConfigured() bool {
	return e.RazorpayKeyID != "" && e.RazorpayKeySecret != ""
}

// ListenAddr returns the host:port string the HTTP server binds to.
func (e *Environment) ListenAddr() string {
	if _, err := strconv.Atoi(e.Port); err != nil {
		return ":5000"
	}
	return ":" + e.Port
}

// MaxUploadBytes returns the multipart body limit in bytes.
func (e *Environment) MaxUploadBytes() int64 {
	if e.MaxUploadMB < 1 {
		return 50 << 20
	}
	return e.MaxUploadMB << 20
}
