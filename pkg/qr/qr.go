package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DataURL renders the text as a QR code PNG and returns it as a
// base64 data URL suitable for direct embedding in an <img> tag.
func DataURL(text string, size int) (string, error) {
	if text == "" {
		return "", fmt.Errorf("empty text")
	}
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
