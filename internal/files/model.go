package files

import (
	"errors"
	"time"
)

// File type discriminators stored on a media file record.
const (
	TypeImage    = "image"
	TypeVideo    = "video"
	TypeDocument = "document"
)

var (
	// ErrNotFound signals a missing or soft-deleted media file record.
	ErrNotFound = errors.New("media file not found")
	// ErrInvalidInput signals rejected caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUploadIncomplete signals that a presigned upload was confirmed
	// before the object arrived in storage.
	ErrUploadIncomplete = errors.New("upload not completed")
)

// MediaFile is the persisted record for one stored binary object.
type MediaFile struct {
	ID               int64
	Filename         string
	OriginalFilename string
	FileType         string
	MimeType         string
	FileSize         int64
	FileKey          string
	IsPublic         bool
	PublicURL        string
	AthleteID        *int64
	Width            *int
	Height           *int
	Duration         *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// ValidType reports whether t is a known file type discriminator.
func ValidType(t string) bool {
	switch t {
	case TypeImage, TypeVideo, TypeDocument:
		return true
	default:
		return false
	}
}
