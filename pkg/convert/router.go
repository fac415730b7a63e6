package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// Category names the tool family a conversion pair belongs to.
type Category int

const (
	CategoryUnsupported Category = iota
	CategoryImage
	CategoryMedia
	CategoryDocument
)

func (c Category) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryMedia:
		return "media"
	case CategoryDocument:
		return "document"
	default:
		return "unsupported"
	}
}

// DefaultQuality is used when a quality parameter is absent or malformed.
const DefaultQuality = 80

var imageExts = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "webp": true,
}

var mediaExts = map[string]bool{
	"mp4": true, "mp3": true, "wav": true,
}

var documentExts = map[string]bool{
	"doc": true, "docx": true, "ppt": true, "pptx": true,
	"xls": true, "xlsx": true, "odt": true, "txt": true,
	"rtf": true, "html": true, "csv": true,
}

// NormalizeExt lowercases an extension and strips a leading dot, so ".JPG",
// "JPG" and "jpg" classify identically.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Classify decides which tool family handles a (source, target) pair.
// Unsupported pairs are rejected here, before any output temp file exists.
func Classify(sourceExt, targetExt string) Category {
	source := NormalizeExt(sourceExt)
	target := NormalizeExt(targetExt)
	if source == "" || target == "" {
		return CategoryUnsupported
	}

	switch {
	case imageExts[source] && imageExts[target]:
		return CategoryImage
	case mediaExts[source] && mediaExts[target]:
		return CategoryMedia
	case documentExts[source] && target == "pdf":
		return CategoryDocument
	default:
		return CategoryUnsupported
	}
}

// UnsupportedPairError reports the rejected pair back to the client.
func UnsupportedPairError(sourceExt, targetExt string) error {
	return fmt.Errorf("unsupported conversion: %s to %s",
		NormalizeExt(sourceExt), NormalizeExt(targetExt))
}

// ClampQuality parses a requested quality value and clamps it to [10,100].
// Non-numeric input falls back to DefaultQuality; out-of-range values are
// clamped, never passed through to the underlying codec.
func ClampQuality(raw string) int {
	q, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultQuality
	}
	if q < 10 {
		return 10
	}
	if q > 100 {
		return 100
	}
	return q
}

// ParseDimension parses a resize dimension, rejecting zero and negatives.
func ParseDimension(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid dimension %q", raw)
	}
	return n, nil
}
