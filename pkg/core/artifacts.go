package core

import "strings"

// Screenshot payloads arrive as base64 image data, optionally already
// carrying a data-URI prefix. The image format is not declared, so it is
// sniffed from the leading base64 bytes.

const (
	jpegPrefix = "/9j/"
	pngPrefix  = "iVBOR"
)

// ScreenshotMIME sniffs the image MIME type of a base64 screenshot payload.
// Unknown payloads default to PNG.
func ScreenshotMIME(b64 string) string {
	if strings.HasPrefix(b64, jpegPrefix) {
		return "image/jpeg"
	}
	if strings.HasPrefix(b64, pngPrefix) {
		return "image/png"
	}
	return "image/png"
}

// ScreenshotDataURI builds a displayable data-URI reference from a base64
// screenshot payload. Payloads that already carry a data-URI prefix are
// returned unchanged.
func ScreenshotDataURI(b64 string) string {
	if b64 == "" {
		return ""
	}
	if strings.HasPrefix(b64, "data:") {
		return b64
	}
	return "data:" + ScreenshotMIME(b64) + ";base64," + b64
}

// ScreenshotRaw strips a data-URI prefix, returning bare base64 data.
func ScreenshotRaw(b64 string) string {
	if !strings.HasPrefix(b64, "data:") {
		return b64
	}
	if i := strings.Index(b64, ","); i >= 0 {
		return b64[i+1:]
	}
	return b64
}
