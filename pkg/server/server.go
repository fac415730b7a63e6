package server

import (
	"net/http"
	"time"

	"github.com/filebridge/filebridge/pkg/convert"
	"github.com/filebridge/filebridge/pkg/environment"
	"github.com/filebridge/filebridge/pkg/logging"
	"github.com/filebridge/filebridge/pkg/payments"
	"github.com/filebridge/filebridge/pkg/proxy"
	"github.com/filebridge/filebridge/pkg/stream"
	"github.com/filebridge/filebridge/pkg/tempfile"
	"github.com/filebridge/filebridge/pkg/toolrunner"
	"github.com/filebridge/filebridge/pkg/upload"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Server owns the HTTP surface and the collaborators every handler needs.
// All fields are wired once at startup and read-only afterwards.
type Server struct {
	env       *environment.Environment
	logger    *logging.Logger
	ws        *tempfile.Workspace
	ingestor  *upload.Ingestor
	streamer  *stream.Streamer
	converter *convert.Converter
	proxies   *proxy.Client
	payments  *payments.Service
}

// New wires the full dependency graph onto one filesystem.
func New(fs afero.Fs, env *environment.Environment, logger *logging.Logger) *Server {
	ws := tempfile.NewWorkspace(fs, env.WorkDir, logger)
	runner := toolrunner.NewRunner(env.ToolConcurrency, logger)

	var presets *convert.PresetLibrary
	if env.PresetFile != "" {
		lib, err := convert.LoadPresetFile(fs, env.PresetFile)
		if err != nil {
			logger.Warn("ignoring unreadable preset file", "path", env.PresetFile, "error", err)
		} else {
			presets = lib
		}
	}

	tools := convert.Tools{
		Ghostscript: toolrunner.Tool{Name: "ghostscript", Bin: env.GhostscriptBin},
		FFmpeg:      toolrunner.Tool{Name: "ffmpeg", Bin: env.FFmpegBin},
		LibreOffice: toolrunner.Tool{Name: "libreoffice", Bin: env.LibreOfficeBin},
	}
	downloader := toolrunner.Tool{Name: "media-downloader", Bin: env.MediaDownloaderBin}

	endpoints := proxy.DefaultEndpoints()
	if env.YouTubeAPIURL != "" {
		endpoints.YouTube = env.YouTubeAPIURL
	}
	if env.InstagramAPIURL != "" {
		endpoints.Instagram = env.InstagramAPIURL
	}
	if env.TikTokAPIURL != "" {
		endpoints.TikTok = env.TikTokAPIURL
	}
	if env.FacebookAPIURL != "" {
		endpoints.Facebook = env.FacebookAPIURL
	}
	if env.RemoveBgAPIURL != "" {
		endpoints.RemoveBg = env.RemoveBgAPIURL
	}

	return &Server{
		env:       env,
		logger:    logger,
		ws:        ws,
		ingestor:  upload.NewIngestor(ws, logger),
		streamer:  stream.New(ws, logger),
		converter: convert.New(ws, runner, tools, presets, logger),
		proxies:   proxy.NewClient(endpoints, runner, downloader, env.RemoveBgAPIKey, logger),
		payments:  payments.New(env.RazorpayKeyID, env.RazorpayKeySecret, logger),
	}
}

// Workspace exposes the temp workspace for startup sweeping.
func (s *Server) Workspace() *tempfile.Workspace {
	return s.ws
}

// Router builds the gin engine with CORS, body limits and every route.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLog())
	router.MaxMultipartMemory = 8 << 20

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/", s.handleRoot)
	router.GET("/healthz", s.handleHealthz)

	api := router.Group("/api")
	api.Use(s.bodyLimit())

	api.POST("/youtube", s.handleYouTube)
	api.POST("/image-compress", s.handleImageCompress)
	api.POST("/file-compress", s.handleFileCompress)
	api.POST("/pdf-compress", s.handlePDFCompress)
	api.POST("/file-convert", s.handleFileConvert)
	api.POST("/download/:platform", s.handleDownload)
	api.POST("/remove-bg", s.handleRemoveBg)
	api.POST("/watermark", s.handleWatermark)
	api.POST("/resize", s.handleResize)
	api.POST("/qrcode", s.handleQRCode)
	api.POST("/create-order", s.handleCreateOrder)
	api.POST("/verify-payment", s.handleVerifyPayment)

	return router
}

// requestLog tags every request with an ID and logs its outcome.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("requestID", requestID)
		start := time.Now()

		c.Next()

		s.logger.Info("request",
			"id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	}
}

// bodyLimit caps multipart request bodies so a single upload cannot
// exhaust disk or memory.
func (s *Server) bodyLimit() gin.HandlerFunc {
	limit := s.env.MaxUploadBytes()
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
