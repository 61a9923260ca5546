package validation

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// MaxImageDimension caps image width and height in pixels.
const MaxImageDimension = 10000

var (
	// ErrEmptyFile signals a zero-byte upload.
	ErrEmptyFile = errors.New("file is empty")
	// ErrTooLarge signals an upload over the configured size limit.
	ErrTooLarge = errors.New("file exceeds maximum size")
	// ErrUnsupportedType signals content that is not an accepted media format.
	ErrUnsupportedType = errors.New("unsupported file type")
)

var imageMIMEs = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

var videoMIMEs = map[string]struct{}{
	"video/mp4":       {},
	"video/avi":       {},
	"video/quicktime": {},
	"video/x-ms-wmv":  {},
	"video/webm":      {},
}

// ImageInfo describes a validated image payload. Width and Height are zero
// when the format has no stdlib decoder (webp).
type ImageInfo struct {
	MimeType string
	Width    int
	Height   int
}

// CheckSize rejects empty payloads and payloads over max bytes.
func CheckSize(size, max int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if max > 0 && size > max {
		return fmt.Errorf("%w: %d bytes over %d limit", ErrTooLarge, size, max)
	}
	return nil
}

// SniffMIME detects the content type from the payload's leading bytes,
// ignoring any client-declared type.
func SniffMIME(data []byte) string {
	return http.DetectContentType(data)
}

// AllowedImageMIME reports whether mime is an accepted image type.
func AllowedImageMIME(mime string) bool {
	_, ok := imageMIMEs[mime]
	return ok
}

// AllowedVideoMIME reports whether mime is an accepted video type.
func AllowedVideoMIME(mime string) bool {
	_, ok := videoMIMEs[mime]
	return ok
}

// ValidateImage sniffs the payload, checks it against the accepted image
// formats and enforces the dimension cap where the format is decodable.
func ValidateImage(data []byte) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, ErrEmptyFile
	}

	mime := SniffMIME(data)
	if !AllowedImageMIME(mime) {
		return ImageInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}

	info := ImageInfo{MimeType: mime}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if mime == "image/webp" {
			// No stdlib decoder; signature already matched.
			return info, nil
		}
		return ImageInfo{}, fmt.Errorf("%w: undecodable %s payload", ErrUnsupportedType, mime)
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return ImageInfo{}, fmt.Errorf("%w: dimensions %dx%d exceed %dpx", ErrTooLarge, cfg.Width, cfg.Height, MaxImageDimension)
	}
	info.Width = cfg.Width
	info.Height = cfg.Height
	return info, nil
}

// ValidateVideo checks the payload's container signature and returns the
// detected MIME type. Sniffing alone misses QuickTime, so the ISO BMFF,
// RIFF and EBML magics are checked directly.
func ValidateVideo(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	if mime, ok := videoSignature(data); ok {
		return mime, nil
	}

	mime := SniffMIME(data)
	if AllowedVideoMIME(mime) {
		return mime, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
}

func videoSignature(data []byte) (string, bool) {
	if len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")) {
		brand := string(data[8:12])
		if brand == "qt  " {
			return "video/quicktime", true
		}
		return "video/mp4", true
	}
	if len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("AVI ")) {
		return "video/avi", true
	}
	if bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}) {
		return "video/webm", true
	}
	return "", false
}
