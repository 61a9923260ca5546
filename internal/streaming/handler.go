package streaming

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"athlete-backend/internal/files"
	"athlete-backend/internal/shared/server/respond"
)

// Handler resolves file identifiers to object keys and hands the transfer
// to the Streamer.
type Handler struct {
	Repo     files.Repo
	Streamer *Streamer
}

// NewHandler constructs a Handler.
func NewHandler(repo files.Repo, streamer *Streamer) *Handler {
	return &Handler{Repo: repo, Streamer: streamer}
}

// RegisterRoutes attaches streaming routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stream/:id/video", h.video)
	rg.GET("/stream/:id/image", h.image)
	rg.GET("/stream/:id/raw", h.raw)
	rg.GET("/stream/:id/info", h.info)
}

func (h *Handler) video(c *gin.Context) {
	record, ok := h.lookup(c, files.TypeVideo)
	if !ok {
		return
	}
	h.serve(c, record, Options{
		FallbackContentType: "video/mp4",
		Filename:            record.OriginalFilename,
		CacheControl:        "public, max-age=3600",
		NoSniff:             true,
	})
}

func (h *Handler) image(c *gin.Context) {
	record, ok := h.lookup(c, files.TypeImage)
	if !ok {
		return
	}
	h.serve(c, record, Options{
		FallbackContentType: "image/jpeg",
		Filename:            record.OriginalFilename,
		CacheControl:        "public, max-age=86400",
		NoSniff:             true,
	})
}

func (h *Handler) raw(c *gin.Context) {
	record, ok := h.lookup(c, "")
	if !ok {
		return
	}
	h.serve(c, record, Options{
		FallbackContentType: record.MimeType,
		Filename:            record.OriginalFilename,
	})
}

func (h *Handler) info(c *gin.Context) {
	record, ok := h.lookup(c, "")
	if !ok {
		return
	}

	info, err := h.Streamer.Describe(c.Request.Context(), record.FileKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to describe file", nil)
		return
	}

	if info.ContentType == "" {
		info.ContentType = record.MimeType
	}
	respond.JSON(c, http.StatusOK, InfoResponse{
		FileID:                record.ID,
		Key:                   info.Key,
		ContentType:           info.ContentType,
		SizeBytes:             info.SizeBytes,
		SupportsRangeRequests: info.SupportsRangeRequests,
		Protocols:             info.Protocols,
		RecommendedChunkSize:  info.RecommendedChunkSize,
	})
}

// lookup resolves the path id to a live record. Soft-deleted and missing
// records both come back as 404; a wantType mismatch is a 400.
func (h *Handler) lookup(c *gin.Context, wantType string) (files.MediaFile, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "id must be a positive integer", nil)
		return files.MediaFile{}, false
	}

	record, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return files.MediaFile{}, false
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch file", nil)
		return files.MediaFile{}, false
	}

	if wantType != "" && record.FileType != wantType {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is not a "+wantType, nil)
		return files.MediaFile{}, false
	}
	return record, true
}

func (h *Handler) serve(c *gin.Context, record files.MediaFile, opts Options) {
	err := h.Streamer.Stream(c.Writer, c.Request, record.FileKey, opts)
	if err == nil {
		return
	}
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to stream file", nil)
}
