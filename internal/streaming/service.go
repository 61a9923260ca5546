package streaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"athlete-backend/internal/shared/metrics"
	"athlete-backend/internal/shared/storage/object"
	"athlete-backend/internal/shared/telemetry"
)

// DefaultChunkSize bounds per-transfer memory use during the relay loop.
const DefaultChunkSize = 8 << 10

// ErrNotFound signals a missing backend object.
var ErrNotFound = errors.New("object not found")

// Options shape one transfer. FallbackContentType applies when the backend
// reports none; Filename, when set, produces a Content-Disposition header.
type Options struct {
	FallbackContentType string
	Filename            string
	CacheControl        string
	NoSniff             bool
}

// Info describes an object for clients planning playback.
type Info struct {
	Key                   string
	ContentType           string
	SizeBytes             int64
	SupportsRangeRequests bool
	Protocols             []string
	RecommendedChunkSize  int
}

// Streamer relays object bytes from the backing store to HTTP clients,
// honoring single-range requests. Every transfer re-reads metadata and
// presigns a fresh URL so concurrent deletes and replacements are always
// observed.
type Streamer struct {
	Store      object.Store
	Client     *http.Client
	PresignTTL time.Duration
	ChunkSize  int
}

func (s *Streamer) chunkSize() int {
	if s.ChunkSize > 0 {
		return s.ChunkSize
	}
	return DefaultChunkSize
}

func (s *Streamer) presignTTL() time.Duration {
	if s.PresignTTL > 0 {
		return s.PresignTTL
	}
	return time.Hour
}

func (s *Streamer) httpClient() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

// Describe returns transfer planning info without moving any payload.
func (s *Streamer) Describe(ctx context.Context, key string) (Info, error) {
	meta, err := s.Store.GetMetadata(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Info{}, ErrNotFound
		}
		return Info{}, err
	}
	return Info{
		Key:                   key,
		ContentType:           meta.ContentType,
		SizeBytes:             meta.SizeBytes,
		SupportsRangeRequests: true,
		Protocols:             []string{"progressive"},
		RecommendedChunkSize:  s.chunkSize(),
	}, nil
}

// Stream serves the object at key to the client, honoring the request's
// Range header. Malformed or unsatisfiable ranges degrade to a full
// transfer. The returned error is non-nil only when no bytes have been
// written, so the caller can still produce a clean error response.
func (s *Streamer) Stream(w http.ResponseWriter, r *http.Request, key string, opts Options) error {
	ctx := r.Context()
	started := time.Now()
	metrics.IncStreamStarted()

	meta, err := s.Store.GetMetadata(ctx, key)
	if err != nil {
		metrics.IncStreamFailed()
		if errors.Is(err, object.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("object metadata: %w", err)
	}

	br, outcome := ParseRange(r.Header.Get("Range"), meta.SizeBytes)
	if outcome == RangeInvalid {
		telemetry.Warn("streaming.range.fallback", map[string]any{
			"key":   key,
			"range": r.Header.Get("Range"),
			"size":  meta.SizeBytes,
		})
	}
	partial := outcome == RangeValid

	signedURL, err := s.Store.PresignDownload(ctx, key, s.presignTTL())
	if err != nil {
		metrics.IncStreamFailed()
		return fmt.Errorf("presign download: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURL, nil)
	if err != nil {
		metrics.IncStreamFailed()
		return fmt.Errorf("build backend request: %w", err)
	}
	if partial {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", br.Start, br.End))
	}

	resp, err := s.httpClient().Do(req)
	if err != nil {
		metrics.IncStreamFailed()
		return fmt.Errorf("backend fetch: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		// Expected for ranged fetches.
	case http.StatusOK:
		// Backend ignored the range (or none was sent). Relay the whole
		// object so the declared length matches what is actually sent.
		partial = false
	case http.StatusNotFound:
		metrics.IncStreamFailed()
		return ErrNotFound
	default:
		metrics.IncStreamFailed()
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	contentType := meta.ContentType
	if contentType == "" {
		contentType = opts.FallbackContentType
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := w.Header()
	header.Set("Content-Type", contentType)
	header.Set("Accept-Ranges", "bytes")
	if opts.CacheControl != "" {
		header.Set("Cache-Control", opts.CacheControl)
	}
	if opts.NoSniff {
		header.Set("X-Content-Type-Options", "nosniff")
	}
	if opts.Filename != "" {
		header.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", opts.Filename))
	}

	if partial {
		header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", br.Start, br.End, meta.SizeBytes))
		header.Set("Content-Length", strconv.FormatInt(br.Length(), 10))
		w.WriteHeader(http.StatusPartialContent)
	} else {
		header.Set("Content-Length", strconv.FormatInt(meta.SizeBytes, 10))
		w.WriteHeader(http.StatusOK)
	}

	written := s.relay(w, resp.Body, key)
	metrics.AddStreamedBytes(written)
	metrics.ObserveStreamDurationMs(float64(time.Since(started).Milliseconds()))
	return nil
}

// relay copies backend bytes to the client in bounded chunks. A client
// write failure stops the loop so the backend read is not drained for
// nothing; headers are already out, so errors here cannot change the
// response status.
func (s *Streamer) relay(w http.ResponseWriter, body io.Reader, key string) int64 {
	buf := make([]byte, s.chunkSize())
	flusher, _ := w.(http.Flusher)

	var written int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			wn, writeErr := w.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				metrics.IncStreamFailed()
				telemetry.Warn("streaming.client_disconnected", map[string]any{
					"key":     key,
					"written": written,
				})
				return written
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				metrics.IncStreamCompleted()
			} else {
				// Mid-stream backend failure; the client detects the
				// truncation via the Content-Length mismatch.
				metrics.IncStreamFailed()
				telemetry.Error("streaming.backend_read_failed", map[string]any{
					"key":     key,
					"written": written,
					"err":     readErr.Error(),
				})
			}
			return written
		}
	}
}
