package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"athlete-backend/internal/queue"
	"athlete-backend/internal/shared/metrics"
	"athlete-backend/internal/shared/storage/object"
	"athlete-backend/internal/shared/telemetry"
	"athlete-backend/internal/shared/util"
	"athlete-backend/internal/validation"
)

const maxPresignTTL = 24 * time.Hour

// contentTypeByExtension maps upload filename extensions to the content type
// baked into the presigned PUT. Unknown extensions fall back to octet-stream.
var contentTypeByExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".avi":  "video/avi",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".webm": "video/webm",
}

// Service contains business logic for media files.
type Service struct {
	Repo       Repo
	Store      object.Store
	Queue      queue.Client
	PresignTTL time.Duration
	MaxBytes   int64
}

func (s *Service) presignTTL() time.Duration {
	if s.PresignTTL > 0 {
		return s.PresignTTL
	}
	return time.Hour
}

// PresignUploadInput describes a requested presigned upload.
type PresignUploadInput struct {
	OriginalFilename string
	FileType         string
	AthleteID        *int64
	IsPublic         bool
}

// PresignedUpload carries a created record plus the URL the client PUTs to.
type PresignedUpload struct {
	File      MediaFile
	UploadURL string
	ExpiresIn time.Duration
}

// CreatePresignedUpload records a pending media file and returns a presigned
// PUT URL for the client to upload the bytes directly. The record's size
// stays zero until the upload is confirmed.
func (s *Service) CreatePresignedUpload(ctx context.Context, in PresignUploadInput) (PresignedUpload, error) {
	sanitized, err := util.SanitizeFileName(in.OriginalFilename)
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("%w: invalid filename", ErrInvalidInput)
	}
	in.OriginalFilename = sanitized
	if !ValidType(in.FileType) {
		return PresignedUpload{}, fmt.Errorf("%w: unknown file type %q", ErrInvalidInput, in.FileType)
	}

	contentType := contentTypeForFilename(in.OriginalFilename)

	var athleteID int64
	if in.AthleteID != nil {
		athleteID = *in.AthleteID
	}
	key := object.GenerateKey(in.OriginalFilename, athleteID)

	ttl := s.presignTTL()
	uploadURL, err := s.Store.PresignUpload(ctx, key, contentType, ttl)
	if err != nil {
		return PresignedUpload{}, fmt.Errorf("presign upload: %w", err)
	}

	record := MediaFile{
		Filename:         path.Base(key),
		OriginalFilename: in.OriginalFilename,
		FileType:         in.FileType,
		MimeType:         contentType,
		FileKey:          key,
		IsPublic:         in.IsPublic,
		AthleteID:        in.AthleteID,
	}
	if in.IsPublic {
		if publicURL, ok := s.Store.PublicURL(key); ok {
			record.PublicURL = publicURL
		}
	}

	created, err := s.Repo.Create(ctx, record)
	if err != nil {
		return PresignedUpload{}, err
	}

	metrics.IncUpload()
	return PresignedUpload{File: created, UploadURL: uploadURL, ExpiresIn: ttl}, nil
}

// DirectUploadInput describes an upload carried in the request body.
type DirectUploadInput struct {
	OriginalFilename string
	FileType         string
	AthleteID        *int64
	IsPublic         bool
	Data             []byte
}

// UploadDirect validates the payload, stores it and records the media file.
func (s *Service) UploadDirect(ctx context.Context, in DirectUploadInput) (MediaFile, error) {
	sanitized, err := util.SanitizeFileName(in.OriginalFilename)
	if err != nil {
		return MediaFile{}, fmt.Errorf("%w: invalid filename", ErrInvalidInput)
	}
	in.OriginalFilename = sanitized
	if !ValidType(in.FileType) {
		return MediaFile{}, fmt.Errorf("%w: unknown file type %q", ErrInvalidInput, in.FileType)
	}
	if err := validation.CheckSize(int64(len(in.Data)), s.MaxBytes); err != nil {
		return MediaFile{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	var (
		mimeType string
		width    *int
		height   *int
	)
	switch in.FileType {
	case TypeImage:
		info, err := validation.ValidateImage(in.Data)
		if err != nil {
			return MediaFile{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		mimeType = info.MimeType
		if info.Width > 0 {
			w, h := info.Width, info.Height
			width, height = &w, &h
		}
	case TypeVideo:
		detected, err := validation.ValidateVideo(in.Data)
		if err != nil {
			return MediaFile{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		mimeType = detected
	default:
		mimeType = validation.SniffMIME(in.Data)
	}

	var athleteID int64
	if in.AthleteID != nil {
		athleteID = *in.AthleteID
	}
	key := object.GenerateKey(in.OriginalFilename, athleteID)

	metadata := map[string]string{"original-filename": in.OriginalFilename}
	if err := s.Store.Upload(ctx, key, bytes.NewReader(in.Data), mimeType, metadata); err != nil {
		return MediaFile{}, fmt.Errorf("store upload: %w", err)
	}

	record := MediaFile{
		Filename:         path.Base(key),
		OriginalFilename: in.OriginalFilename,
		FileType:         in.FileType,
		MimeType:         mimeType,
		FileSize:         int64(len(in.Data)),
		FileKey:          key,
		IsPublic:         in.IsPublic,
		AthleteID:        in.AthleteID,
		Width:            width,
		Height:           height,
	}
	if in.IsPublic {
		if publicURL, ok := s.Store.PublicURL(key); ok {
			record.PublicURL = publicURL
		}
	}

	created, err := s.Repo.Create(ctx, record)
	if err != nil {
		return MediaFile{}, err
	}
	metrics.IncUpload()
	return created, nil
}

// ConfirmUpload verifies that a presigned upload actually landed in storage
// and backfills the record's size and content type from object metadata.
func (s *Service) ConfirmUpload(ctx context.Context, id int64) (MediaFile, error) {
	record, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return MediaFile{}, err
	}

	exists, err := s.Store.Exists(ctx, record.FileKey)
	if err != nil {
		return MediaFile{}, fmt.Errorf("check object: %w", err)
	}
	if !exists {
		return MediaFile{}, ErrUploadIncomplete
	}

	meta, err := s.Store.GetMetadata(ctx, record.FileKey)
	if err != nil {
		return MediaFile{}, fmt.Errorf("object metadata: %w", err)
	}

	record.FileSize = meta.SizeBytes
	if meta.ContentType != "" {
		record.MimeType = meta.ContentType
	}
	if err := s.Repo.Update(ctx, record); err != nil {
		return MediaFile{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

// Get returns a single media file record.
func (s *Service) Get(ctx context.Context, id int64) (MediaFile, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns media file records matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]MediaFile, error) {
	if filter.FileType != nil && !ValidType(*filter.FileType) {
		return nil, fmt.Errorf("%w: unknown file type %q", ErrInvalidInput, *filter.FileType)
	}
	return s.Repo.List(ctx, filter)
}

// DownloadURL resolves the URL a client should fetch the object from: the
// public URL for public files, otherwise a presigned GET.
func (s *Service) DownloadURL(ctx context.Context, id int64) (string, error) {
	record, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if record.IsPublic && record.PublicURL != "" {
		return record.PublicURL, nil
	}
	signed, err := s.Store.PresignDownload(ctx, record.FileKey, s.presignTTL())
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return signed, nil
}

// PresignedDownload returns a presigned GET URL with a caller-chosen TTL,
// capped at 24 hours.
func (s *Service) PresignedDownload(ctx context.Context, id int64, ttl time.Duration) (string, time.Duration, error) {
	if ttl <= 0 {
		ttl = s.presignTTL()
	}
	if ttl > maxPresignTTL {
		ttl = maxPresignTTL
	}

	record, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", 0, err
	}
	signed, err := s.Store.PresignDownload(ctx, record.FileKey, ttl)
	if err != nil {
		return "", 0, fmt.Errorf("presign download: %w", err)
	}
	return signed, ttl, nil
}

// UpdateInput carries optional field changes. Nil fields are left untouched.
type UpdateInput struct {
	Filename  *string
	IsPublic  *bool
	AthleteID *int64
}

// Update applies field changes to a record. Toggling visibility recomputes
// the stored public URL.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (MediaFile, error) {
	record, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return MediaFile{}, err
	}

	if in.Filename != nil {
		name := strings.TrimSpace(*in.Filename)
		if name == "" {
			return MediaFile{}, fmt.Errorf("%w: filename cannot be empty", ErrInvalidInput)
		}
		record.Filename = name
	}
	if in.AthleteID != nil {
		record.AthleteID = in.AthleteID
	}
	if in.IsPublic != nil && *in.IsPublic != record.IsPublic {
		record.IsPublic = *in.IsPublic
		record.PublicURL = ""
		if record.IsPublic {
			if publicURL, ok := s.Store.PublicURL(record.FileKey); ok {
				record.PublicURL = publicURL
			}
		}
	}

	if err := s.Repo.Update(ctx, record); err != nil {
		return MediaFile{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

// Delete removes a record. Soft deletes keep the row and the object; hard
// deletes drop the row and schedule removal of the stored object.
func (s *Service) Delete(ctx context.Context, id int64, hard bool, requestID string) error {
	if !hard {
		return s.Repo.SoftDelete(ctx, id, time.Now().UTC())
	}

	record, err := s.Repo.GetIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.HardDelete(ctx, id); err != nil {
		return err
	}
	s.cleanupObject(record, requestID)
	return nil
}

// cleanupObject removes the stored object after a hard delete, preferring
// the queue so retries survive process restarts.
func (s *Service) cleanupObject(record MediaFile, requestID string) {
	if s.Queue != nil {
		msg := queue.Message{
			FileID:     record.ID,
			ObjectKey:  record.FileKey,
			RequestID:  requestID,
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.Queue.Send(context.Background(), msg)
		if err == nil {
			return
		}
		telemetry.Warn("files.cleanup.enqueue_failed", map[string]any{
			"file_id": record.ID,
			"key":     record.FileKey,
			"err":     err.Error(),
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Store.Delete(ctx, record.FileKey); err != nil && !errors.Is(err, object.ErrNotFound) {
			telemetry.Error("files.cleanup.delete_failed", map[string]any{
				"file_id": record.ID,
				"key":     record.FileKey,
				"err":     err.Error(),
			})
		}
	}()
}

func contentTypeForFilename(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := contentTypeByExtension[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
