package server

import (
	"errors"
	"net/http"

	"github.com/filebridge/filebridge/pkg/convert"
	"github.com/filebridge/filebridge/pkg/proxy"
	"github.com/filebridge/filebridge/pkg/qr"
	"github.com/gin-gonic/gin"
)

type urlRequest struct {
	URL string `json:"url"`
}

// handleYouTube relays a video's metadata and quality ladder.
func (s *Server) handleYouTube(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		badRequest(c, "missing url")
		return
	}

	info, err := s.proxies.ResolveYouTube(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, proxy.ErrBadURL) {
			badRequest(c, "invalid url")
			return
		}
		s.logger.Error("youtube resolve failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// handleDownload relays a direct media URL for one social platform.
func (s *Server) handleDownload(c *gin.Context) {
	platform, err := proxy.ParsePlatform(c.Param("platform"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		badRequest(c, "missing url")
		return
	}

	mediaURL, err := s.proxies.ResolveMedia(c.Request.Context(), platform, req.URL)
	if err != nil {
		if errors.Is(err, proxy.ErrBadURL) {
			badRequest(c, "invalid url")
			return
		}
		s.logger.Error("media resolve failed", "platform", platform, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "download failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": mediaURL})
}

// handleRemoveBg relays an image through the background-removal API.
func (s *Server) handleRemoveBg(c *gin.Context) {
	artifact, err := s.ingestor.Single(c, "image")
	if err != nil {
		badRequest(c, "no image uploaded")
		return
	}
	defer s.ws.Release(artifact.TempPath)

	cutout, err := s.proxies.RemoveBackground(c.Request.Context(), s.ws.Fs(), artifact.TempPath)
	if err != nil {
		s.operationFailed(c, err)
		return
	}
	s.streamer.SendBuffer(c, cutout, "image/png", artifact.OutputName("-no-bg", "png"))
}

// handleWatermark softens overlays with a local blur pass. This is an
// approximation, not true watermark removal.
func (s *Server) handleWatermark(c *gin.Context) {
	artifact, err := s.ingestor.Single(c, "image")
	if err != nil {
		badRequest(c, "no image uploaded")
		return
	}
	defer s.ws.Release(artifact.TempPath)

	cleaned, err := s.converter.BlurImage(artifact.TempPath, artifact.Ext(), 0)
	if err != nil {
		s.operationFailed(c, err)
		return
	}
	s.streamer.SendBuffer(c, cleaned, "image/png", artifact.OutputName("-clean", "png"))
}

// handleResize scales an image to the requested dimensions.
func (s *Server) handleResize(c *gin.Context) {
	artifact, err := s.ingestor.Single(c, "image")
	if err != nil {
		badRequest(c, "no image uploaded")
		return
	}
	defer s.ws.Release(artifact.TempPath)

	width, werr := convert.ParseDimension(c.PostForm("width"))
	height, herr := convert.ParseDimension(c.PostForm("height"))
	if werr != nil || herr != nil {
		badRequest(c, "width and height must be positive integers")
		return
	}

	resized, err := s.converter.ResizeImage(artifact.TempPath, artifact.Ext(), width, height)
	if err != nil {
		s.operationFailed(c, err)
		return
	}
	s.streamer.SendBuffer(c, resized, "image/png", artifact.OutputName("-resized", "png"))
}

// handleQRCode renders text as a QR code data URL.
func (s *Server) handleQRCode(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		badRequest(c, "missing text")
		return
	}

	dataURL, err := qr.DataURL(req.Text, 256)
	if err != nil {
		s.operationFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "qr": dataURL})
}
