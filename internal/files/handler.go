package files

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"athlete-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches media file routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/files/upload/presigned", h.presignedUpload)
	rg.POST("/files/upload/direct", h.directUpload)
	rg.POST("/files/:id/confirm-upload", h.confirmUpload)
	rg.GET("/files", h.list)
	rg.GET("/files/:id", h.get)
	rg.GET("/files/:id/download", h.download)
	rg.GET("/files/:id/presigned-url", h.presignedURL)
	rg.PATCH("/files/:id", h.update)
	rg.DELETE("/files/:id", h.remove)
}

type presignedUploadRequest struct {
	Filename  string `json:"filename"`
	FileType  string `json:"fileType"`
	AthleteID *int64 `json:"athleteId"`
	IsPublic  bool   `json:"isPublic"`
}

func (h *Handler) presignedUpload(c *gin.Context) {
	var req presignedUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.CreatePresignedUpload(c.Request.Context(), PresignUploadInput{
		OriginalFilename: req.Filename,
		FileType:         req.FileType,
		AthleteID:        req.AthleteID,
		IsPublic:         req.IsPublic,
	})
	if err != nil {
		h.writeError(c, err, "failed to create presigned upload")
		return
	}

	respond.JSON(c, http.StatusCreated, PresignedUploadResponse{
		File:             toResponse(result.File),
		UploadURL:        result.UploadURL,
		ExpiresInSeconds: int64(result.ExpiresIn.Seconds()),
	})
}

func (h *Handler) directUpload(c *gin.Context) {
	if h.Svc.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	fileType := c.PostForm("fileType")
	isPublic := c.PostForm("isPublic") == "true"

	var athleteID *int64
	if v := c.PostForm("athleteId"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "athleteId must be an integer", nil)
			return
		}
		athleteID = &parsed
	}

	record, err := h.Svc.UploadDirect(c.Request.Context(), DirectUploadInput{
		OriginalFilename: fileHeader.Filename,
		FileType:         fileType,
		AthleteID:        athleteID,
		IsPublic:         isPublic,
		Data:             data,
	})
	if err != nil {
		h.writeError(c, err, "failed to upload file")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(record))
}

func (h *Handler) confirmUpload(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.Svc.ConfirmUpload(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to confirm upload")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(record))
}

func (h *Handler) list(c *gin.Context) {
	filter := ListFilter{}

	if v := c.Query("athleteId"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "athleteId must be an integer", nil)
			return
		}
		filter.AthleteID = &parsed
	}
	if v := c.Query("fileType"); v != "" {
		filter.FileType = &v
	}
	if v := c.Query("isPublic"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "isPublic must be a boolean", nil)
			return
		}
		filter.IsPublic = &parsed
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Offset = parsed
		}
	}

	records, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err, "failed to list files")
		return
	}

	resp := make([]FileResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, toResponse(record))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	record, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to fetch file")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(record))
}

func (h *Handler) download(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	url, err := h.Svc.DownloadURL(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "failed to resolve download url")
		return
	}

	c.Redirect(http.StatusFound, url)
}

func (h *Handler) presignedURL(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var ttl time.Duration
	if v := c.Query("expiresIn"); v != "" {
		secs, err := strconv.ParseInt(v, 10, 64)
		if err != nil || secs <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "expiresIn must be a positive number of seconds", nil)
			return
		}
		ttl = time.Duration(secs) * time.Second
	}

	url, granted, err := h.Svc.PresignedDownload(c.Request.Context(), id, ttl)
	if err != nil {
		h.writeError(c, err, "failed to presign download")
		return
	}

	respond.JSON(c, http.StatusOK, PresignedDownloadResponse{
		DownloadURL:      url,
		ExpiresInSeconds: int64(granted.Seconds()),
	})
}

type updateRequest struct {
	Filename  *string `json:"filename"`
	IsPublic  *bool   `json:"isPublic"`
	AthleteID *int64  `json:"athleteId"`
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	record, err := h.Svc.Update(c.Request.Context(), id, UpdateInput{
		Filename:  req.Filename,
		IsPublic:  req.IsPublic,
		AthleteID: req.AthleteID,
	})
	if err != nil {
		h.writeError(c, err, "failed to update file")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(record))
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	hard := c.Query("hard") == "true"
	if err := h.Svc.Delete(c.Request.Context(), id, hard, c.GetString("requestId")); err != nil {
		h.writeError(c, err, "failed to delete file")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUploadIncomplete):
		respond.Error(c, http.StatusBadRequest, "upload_incomplete", "object has not been uploaded yet", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
