package files

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"athlete-backend/internal/queue"
	"athlete-backend/internal/shared/storage/object"
)

type fakeStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	types    map[string]string
	base     string
	deleted  []string
	uploads  int
	presigns int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
		base:    "https://cdn.example.com",
	}
}

func (s *fakeStore) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presigns++
	return "https://signed.example.com/put/" + key, nil
}

func (s *fakeStore) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://signed.example.com/get/" + key, nil
}

func (s *fakeStore) Upload(ctx context.Context, key string, body io.Reader, contentType string, metadata map[string]string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	s.uploads++
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *fakeStore) GetMetadata(ctx context.Context, key string) (object.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return object.Metadata{}, &object.Error{Op: "head", Key: key, Err: object.ErrNotFound}
	}
	return object.Metadata{
		SizeBytes:    int64(len(data)),
		ContentType:  s.types[key],
		LastModified: time.Now().UTC(),
	}, nil
}

func (s *fakeStore) Copy(ctx context.Context, sourceKey, destKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[sourceKey]
	if !ok {
		return &object.Error{Op: "copy", Key: sourceKey, Err: object.ErrNotFound}
	}
	s.objects[destKey] = data
	s.types[destKey] = s.types[sourceKey]
	return nil
}

func (s *fakeStore) PublicURL(key string) (string, bool) {
	if s.base == "" {
		return "", false
	}
	return s.base + "/" + key, true
}

var _ object.Store = (*fakeStore)(nil)

type recordingQueue struct {
	mu   sync.Mutex
	sent []queue.Message
}

func (q *recordingQueue) Send(ctx context.Context, msg queue.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, msg)
	return nil
}

func newTestService(store *fakeStore) *Service {
	return &Service{
		Repo:       NewMemoryRepo(),
		Store:      store,
		PresignTTL: 15 * time.Minute,
		MaxBytes:   100 << 20,
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCreatePresignedUpload(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	athleteID := int64(7)

	result, err := svc.CreatePresignedUpload(context.Background(), PresignUploadInput{
		OriginalFilename: "race.MP4",
		FileType:         TypeVideo,
		AthleteID:        &athleteID,
	})
	if err != nil {
		t.Fatalf("create presigned upload: %v", err)
	}

	if !strings.HasPrefix(result.File.FileKey, "athletes/7/") {
		t.Fatalf("expected athlete-scoped key, got %s", result.File.FileKey)
	}
	if !strings.HasSuffix(result.File.FileKey, ".mp4") {
		t.Fatalf("expected lowercased extension, got %s", result.File.FileKey)
	}
	if result.File.MimeType != "video/mp4" {
		t.Fatalf("expected content type from extension, got %s", result.File.MimeType)
	}
	if result.File.FileSize != 0 {
		t.Fatalf("pending upload must have zero size, got %d", result.File.FileSize)
	}
	if result.UploadURL == "" {
		t.Fatalf("expected upload url")
	}
	if result.ExpiresIn != 15*time.Minute {
		t.Fatalf("unexpected ttl: %v", result.ExpiresIn)
	}
}

func TestCreatePresignedUploadGeneralScope(t *testing.T) {
	svc := newTestService(newFakeStore())

	result, err := svc.CreatePresignedUpload(context.Background(), PresignUploadInput{
		OriginalFilename: "banner.png",
		FileType:         TypeImage,
	})
	if err != nil {
		t.Fatalf("create presigned upload: %v", err)
	}
	if !strings.HasPrefix(result.File.FileKey, "general/") {
		t.Fatalf("expected general-scoped key, got %s", result.File.FileKey)
	}
}

func TestCreatePresignedUploadPublicURL(t *testing.T) {
	svc := newTestService(newFakeStore())

	result, err := svc.CreatePresignedUpload(context.Background(), PresignUploadInput{
		OriginalFilename: "banner.png",
		FileType:         TypeImage,
		IsPublic:         true,
	})
	if err != nil {
		t.Fatalf("create presigned upload: %v", err)
	}
	if !strings.HasPrefix(result.File.PublicURL, "https://cdn.example.com/") {
		t.Fatalf("expected public url, got %q", result.File.PublicURL)
	}
}

func TestCreatePresignedUploadRejectsBadType(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.CreatePresignedUpload(context.Background(), PresignUploadInput{
		OriginalFilename: "x.bin",
		FileType:         "archive",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadDirectImage(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	record, err := svc.UploadDirect(context.Background(), DirectUploadInput{
		OriginalFilename: "photo.png",
		FileType:         TypeImage,
		Data:             testPNG(t),
	})
	if err != nil {
		t.Fatalf("upload direct: %v", err)
	}
	if record.MimeType != "image/png" {
		t.Fatalf("expected sniffed mime, got %s", record.MimeType)
	}
	if record.Width == nil || *record.Width != 4 {
		t.Fatalf("expected width 4, got %v", record.Width)
	}
	if store.uploads != 1 {
		t.Fatalf("expected one stored object, got %d", store.uploads)
	}
	if record.FileSize == 0 {
		t.Fatalf("expected recorded size")
	}
}

func TestUploadDirectRejectsMismatchedContent(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.UploadDirect(context.Background(), DirectUploadInput{
		OriginalFilename: "fake.png",
		FileType:         TypeImage,
		Data:             []byte("definitely not an image"),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadDirectRejectsEmpty(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.UploadDirect(context.Background(), DirectUploadInput{
		OriginalFilename: "empty.png",
		FileType:         TypeImage,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConfirmUpload(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	result, err := svc.CreatePresignedUpload(context.Background(), PresignUploadInput{
		OriginalFilename: "clip.mp4",
		FileType:         TypeVideo,
	})
	if err != nil {
		t.Fatalf("create presigned upload: %v", err)
	}

	// Before the object lands, confirmation must fail.
	if _, err := svc.ConfirmUpload(context.Background(), result.File.ID); !errors.Is(err, ErrUploadIncomplete) {
		t.Fatalf("expected ErrUploadIncomplete, got %v", err)
	}

	payload := bytes.Repeat([]byte{0xAB}, 2048)
	if err := store.Upload(context.Background(), result.File.FileKey, bytes.NewReader(payload), "video/mp4", nil); err != nil {
		t.Fatalf("seed object: %v", err)
	}

	confirmed, err := svc.ConfirmUpload(context.Background(), result.File.ID)
	if err != nil {
		t.Fatalf("confirm upload: %v", err)
	}
	if confirmed.FileSize != 2048 {
		t.Fatalf("expected backfilled size 2048, got %d", confirmed.FileSize)
	}
	if confirmed.MimeType != "video/mp4" {
		t.Fatalf("expected backfilled mime, got %s", confirmed.MimeType)
	}
}

func TestDownloadURLPublicVsPrivate(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	public, err := svc.UploadDirect(context.Background(), DirectUploadInput{
		OriginalFilename: "pub.png",
		FileType:         TypeImage,
		IsPublic:         true,
		Data:             testPNG(t),
	})
	if err != nil {
		t.Fatalf("upload public: %v", err)
	}
	private, err := svc.UploadDirect(context.Background(), DirectUploadInput{
		OriginalFilename: "priv.png",
		FileType:         TypeImage,
		Data:             testPNG(t),
	})
	if err != nil {
		t.Fatalf("upload private: %v", err)
	}

	pubURL, err := svc.DownloadURL(context.Background(), public.ID)
	if err != nil {
		t.Fatalf("download url: %v", err)
	}
	if !strings.HasPrefix(pubURL, "https://cdn.example.com/") {
		t.Fatalf("expected public url, got %s", pubURL)
	}

	privURL, err := svc.DownloadURL(context.Background(), private.ID)
	if err != nil {
		t.Fatalf("download url: %v", err)
	}
	if !strings.HasPrefix(privURL, "https://signed.example.com/get/") {
		t.Fatalf("expected presigned url, got %s", privURL)
	}
}

func TestPresignedDownloadCapsTTL(t *testing.T) {
	svc := newTestService(newFakeStore())

	record, err := svc.UploadDirect(context.Background(), DirectUploadInput{
		OriginalFilename: "a.png",
		FileType:         TypeImage,
		Data:             testPNG(t),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	_, granted, err := svc.PresignedDownload(context.Background(), record.ID, 72*time.Hour)
	if err != nil {
		t.Fatalf("presigned download: %v", err)
	}
	if granted != 24*time.Hour {
		t.Fatalf("expected ttl capped at 24h, got %v", granted)
	}

	_, granted, err = svc.PresignedDownload(context.Background(), record.ID, 0)
	if err != nil {
		t.Fatalf("presigned download: %v", err)
	}
	if granted != 15*time.Minute {
		t.Fatalf("expected default ttl, got %v", granted)
	}
}

func TestUpdateVisibilityRecomputesPublicURL(t *testing.T) {
	svc := newTestService(newFakeStore())

	record, err := svc.UploadDirect(context.Background(), DirectUploadInput{
		OriginalFilename: "a.png",
		FileType:         TypeImage,
		Data:             testPNG(t),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if record.PublicURL != "" {
		t.Fatalf("private file must not carry a public url")
	}

	isPublic := true
	updated, err := svc.Update(context.Background(), record.ID, UpdateInput{IsPublic: &isPublic})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !strings.HasPrefix(updated.PublicURL, "https://cdn.example.com/") {
		t.Fatalf("expected computed public url, got %q", updated.PublicURL)
	}

	isPublic = false
	updated, err = svc.Update(context.Background(), record.ID, UpdateInput{IsPublic: &isPublic})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PublicURL != "" {
		t.Fatalf("expected cleared public url, got %q", updated.PublicURL)
	}
}

func TestSoftDeleteHidesRecord(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	record, err := svc.UploadDirect(context.Background(), DirectUploadInput{
		OriginalFilename: "a.png",
		FileType:         TypeImage,
		Data:             testPNG(t),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(context.Background(), record.ID, false, ""); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), record.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after soft delete, got %v", err)
	}
	if exists, _ := store.Exists(context.Background(), record.FileKey); !exists {
		t.Fatalf("soft delete must keep the stored object")
	}
}

func TestHardDeleteEnqueuesCleanup(t *testing.T) {
	store := newFakeStore()
	q := &recordingQueue{}
	svc := newTestService(store)
	svc.Queue = q

	record, err := svc.UploadDirect(context.Background(), DirectUploadInput{
		OriginalFilename: "a.png",
		FileType:         TypeImage,
		Data:             testPNG(t),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(context.Background(), record.ID, true, "req-1"); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if _, err := svc.Repo.GetIncludingDeleted(context.Background(), record.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected row removed, got %v", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.sent) != 1 {
		t.Fatalf("expected one cleanup message, got %d", len(q.sent))
	}
	if q.sent[0].ObjectKey != record.FileKey {
		t.Fatalf("unexpected cleanup key: %s", q.sent[0].ObjectKey)
	}
}
