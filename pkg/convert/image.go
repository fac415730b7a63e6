package convert

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
)

// decodeImage decodes jpg/png via imaging and webp via the webp codec.
func decodeImage(data []byte, sourceExt string) (image.Image, error) {
	if NormalizeExt(sourceExt) == "webp" {
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode webp: %w", err)
		}
		return img, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// encodeImage encodes to the target format at the given quality. PNG is
// lossless and ignores quality.
func encodeImage(img image.Image, targetExt string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch NormalizeExt(targetExt) {
	case "jpg", "jpeg":
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case "png":
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case "webp":
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, fmt.Errorf("encode webp: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported image target %q", targetExt)
	}
	return buf.Bytes(), nil
}

func (c *Converter) readImage(inputPath, sourceExt string) (image.Image, error) {
	data, err := afero.ReadFile(c.ws.Fs(), inputPath)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", inputPath, err)
	}
	return decodeImage(data, sourceExt)
}

// RecompressImage re-encodes an image to the target format at the clamped
// quality. Runs entirely in-process; image work never shells out.
func (c *Converter) RecompressImage(inputPath, sourceExt, targetExt string, quality int) ([]byte, error) {
	img, err := c.readImage(inputPath, sourceExt)
	if err != nil {
		return nil, err
	}
	return encodeImage(img, targetExt, quality)
}

// ResizeImage scales an image to exactly width x height and returns a PNG.
func (c *Converter) ResizeImage(inputPath, sourceExt string, width, height int) ([]byte, error) {
	img, err := c.readImage(inputPath, sourceExt)
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	return encodeImage(resized, "png", DefaultQuality)
}

// BlurImage applies a gaussian blur and returns a PNG. This backs the
// watermark endpoint, which softens overlays rather than truly removing
// them.
func (c *Converter) BlurImage(inputPath, sourceExt string, sigma float64) ([]byte, error) {
	img, err := c.readImage(inputPath, sourceExt)
	if err != nil {
		return nil, err
	}
	if sigma <= 0 {
		sigma = 3.5
	}
	blurred := imaging.Blur(img, sigma)
	return encodeImage(blurred, "png", DefaultQuality)
}
