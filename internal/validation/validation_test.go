package validation

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCheckSize(t *testing.T) {
	if err := CheckSize(0, 100); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
	if err := CheckSize(101, 100); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if err := CheckSize(100, 100); err != nil {
		t.Fatalf("expected size at limit to pass, got %v", err)
	}
	if err := CheckSize(5, 0); err != nil {
		t.Fatalf("expected unlimited max to pass, got %v", err)
	}
}

func TestValidateImagePNG(t *testing.T) {
	info, err := ValidateImage(pngBytes(t, 32, 16))
	if err != nil {
		t.Fatalf("validate image: %v", err)
	}
	if info.MimeType != "image/png" {
		t.Fatalf("unexpected mime: %s", info.MimeType)
	}
	if info.Width != 32 || info.Height != 16 {
		t.Fatalf("unexpected dimensions: %dx%d", info.Width, info.Height)
	}
}

func TestValidateImageRejectsNonImage(t *testing.T) {
	_, err := ValidateImage([]byte("plain text payload"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestValidateImageIgnoresDeclaredType(t *testing.T) {
	// Sniffing works on content; a payload that claims to be an image but
	// carries an executable header must be rejected.
	payload := append([]byte{0x4D, 0x5A}, bytes.Repeat([]byte{0}, 64)...)
	if _, err := ValidateImage(payload); err == nil {
		t.Fatalf("expected rejection of non-image content")
	}
}

func TestValidateVideoMP4(t *testing.T) {
	payload := append([]byte{0, 0, 0, 0x18}, []byte("ftypisom")...)
	payload = append(payload, bytes.Repeat([]byte{0}, 32)...)

	mime, err := ValidateVideo(payload)
	if err != nil {
		t.Fatalf("validate video: %v", err)
	}
	if mime != "video/mp4" {
		t.Fatalf("unexpected mime: %s", mime)
	}
}

func TestValidateVideoQuickTime(t *testing.T) {
	payload := append([]byte{0, 0, 0, 0x14}, []byte("ftypqt  ")...)
	payload = append(payload, bytes.Repeat([]byte{0}, 32)...)

	mime, err := ValidateVideo(payload)
	if err != nil {
		t.Fatalf("validate video: %v", err)
	}
	if mime != "video/quicktime" {
		t.Fatalf("unexpected mime: %s", mime)
	}
}

func TestValidateVideoWebM(t *testing.T) {
	payload := append([]byte{0x1A, 0x45, 0xDF, 0xA3}, bytes.Repeat([]byte{0}, 32)...)

	mime, err := ValidateVideo(payload)
	if err != nil {
		t.Fatalf("validate video: %v", err)
	}
	if mime != "video/webm" {
		t.Fatalf("unexpected mime: %s", mime)
	}
}

func TestValidateVideoRejectsText(t *testing.T) {
	if _, err := ValidateVideo([]byte("not a video at all, just text")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}
