package server

import (
	"net/http"

	"github.com/filebridge/filebridge/pkg/convert"
	"github.com/filebridge/filebridge/pkg/stream"
	"github.com/filebridge/filebridge/pkg/upload"
	"github.com/filebridge/filebridge/pkg/version"
	"github.com/gin-gonic/gin"
)

// contentTypes maps supported output extensions to response content types.
var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"mp4":  "video/mp4",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"pdf":  "application/pdf",
}

func contentTypeFor(ext string) string {
	if ct, ok := contentTypes[convert.NormalizeExt(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// badRequest emits the descriptive client-error shape shared by every
// endpoint. Internal failures never travel through here.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// operationFailed is the single generic shape for tool and upstream
// failures; the cause stays in server-side logs only.
func (s *Server) operationFailed(c *gin.Context, err error) {
	s.logger.Error("operation failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
}

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "filebridge API is running")
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "filebridge",
		"version": version.Version,
		"status":  "ok",
	})
}

// handleImageCompress recompresses a batch of images into one zip stream,
// one entry per input. An unprocessable input lands in the archive
// unmodified instead of aborting the batch.
func (s *Server) handleImageCompress(c *gin.Context) {
	artifacts, err := s.ingestor.Many(c, "images")
	if err != nil {
		badRequest(c, "no images uploaded")
		return
	}
	defer s.releaseArtifacts(artifacts)

	quality := convert.ClampQuality(c.PostForm("quality"))

	bundle := s.streamer.NewZipBundle(c, "compressed.zip")
	for _, a := range artifacts {
		data, cerr := s.converter.RecompressImage(a.TempPath, a.Ext(), a.Ext(), quality)
		name := a.OutputName("-compressed", a.Ext())
		if err := bundle.AddOrFallback(name, data, cerr,
			stream.SanitizeFilename(a.OriginalName), a.TempPath); err != nil {
			s.logger.Warn("archive entry write failed", "entry", name, "error", err)
			return
		}
	}
	if err := bundle.Close(); err != nil {
		s.logger.Warn("archive close failed", "error", err)
	}
}

// handleFileCompress wraps one uploaded file into a zip stream, keeping
// its original name as the single entry.
func (s *Server) handleFileCompress(c *gin.Context) {
	artifact, err := s.ingestor.Single(c, "file")
	if err != nil {
		badRequest(c, "no file uploaded")
		return
	}
	defer s.ws.Release(artifact.TempPath)

	bundle := s.streamer.NewZipBundle(c, "compressed.zip")
	if err := bundle.AddFile(artifact.OriginalName, artifact.TempPath); err != nil {
		s.logger.Warn("archive entry write failed", "error", err)
		return
	}
	if err := bundle.Close(); err != nil {
		s.logger.Warn("archive close failed", "error", err)
	}
}

// handlePDFCompress distills a PDF at the requested quality level.
func (s *Server) handlePDFCompress(c *gin.Context) {
	artifact, err := s.ingestor.Single(c, "file")
	if err != nil {
		badRequest(c, "no file uploaded")
		return
	}
	defer s.ws.Release(artifact.TempPath)

	if artifact.Ext() != "pdf" {
		badRequest(c, "expected a pdf file")
		return
	}

	outputPath, err := s.converter.DistillPDF(c.Request.Context(), artifact.TempPath, c.PostForm("level"))
	if err != nil {
		s.operationFailed(c, err)
		return
	}

	s.streamer.SendFile(c, outputPath, "application/pdf", artifact.OutputName("-compressed", "pdf"))
}

// handleFileConvert routes a conversion by (source, target) pair: images
// transform in-process, media goes to the transcoder, documents to the
// document engine. Unsupported pairs are rejected before any output
// artifact exists.
func (s *Server) handleFileConvert(c *gin.Context) {
	artifact, err := s.ingestor.Single(c, "file")
	if err != nil {
		badRequest(c, "no file uploaded")
		return
	}
	defer s.ws.Release(artifact.TempPath)

	target := c.PostForm("target")
	if target == "" {
		badRequest(c, "missing target extension")
		return
	}

	switch convert.Classify(artifact.Ext(), target) {
	case convert.CategoryImage:
		data, err := s.converter.RecompressImage(artifact.TempPath, artifact.Ext(), target, convert.DefaultQuality)
		if err != nil {
			s.operationFailed(c, err)
			return
		}
		s.streamer.SendBuffer(c, data, contentTypeFor(target), artifact.OutputName("", target))

	case convert.CategoryMedia:
		outputPath, err := s.converter.Transcode(c.Request.Context(), artifact.TempPath, target, c.PostForm("preset"))
		if err != nil {
			s.operationFailed(c, err)
			return
		}
		s.streamer.SendFile(c, outputPath, contentTypeFor(target), artifact.OutputName("", target))

	case convert.CategoryDocument:
		outputPath, err := s.converter.ConvertDocument(c.Request.Context(), artifact.TempPath, target)
		if err != nil {
			s.operationFailed(c, err)
			return
		}
		s.streamer.SendFile(c, outputPath, contentTypeFor(target), artifact.OutputName("", target))

	default:
		badRequest(c, convert.UnsupportedPairError(artifact.Ext(), target).Error())
	}
}

func (s *Server) releaseArtifacts(artifacts []upload.Artifact) {
	for _, a := range artifacts {
		s.ws.Release(a.TempPath)
	}
}
