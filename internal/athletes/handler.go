package athletes

import (
	"errors"
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

// RegisterRoutes attaches athlete routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/athletes", h.create)
	rg.GET("/athletes", h.list)
	rg.GET("/athletes/:id", h.get)
	rg.PATCH("/athletes/:id", h.update)
	rg.DELETE("/athletes/:id", h.remove)
}

type createRequest struct {
	Name      string     `json:"name"`
	Sport     string     `json:"sport"`
	Country   string     `json:"country"`
	NickName  string     `json:"nickName"`
	Bio       string     `json:"bio"`
	BirthDate *time.Time `json:"birthDate"`
	HeightCm  *float64   `json:"heightCm"`
	WeightKg  *float64   `json:"weightKg"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	record, err := h.Svc.Create(c.Request.Context(), CreateInput{
		Name:      req.Name,
		Sport:     req.Sport,
		Country:   req.Country,
		NickName:  req.NickName,
		Bio:       req.Bio,
		BirthDate: req.BirthDate,
		HeightCm:  req.HeightCm,
		WeightKg:  req.WeightKg,
	})
	if err != nil {
		h.writeError(c, err, "failed to create athlete")
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(record))
}

func (h *Handler) list(c *gin.Context) {
	filter := ListFilter{}
	if v := c.Query("sport"); v != "" {
		filter.Sport = &v
	}
	if v := c.Query("country"); v != "" {
		filter.Country = &v
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
		h.writeError(c, err, "failed to list athletes")
		return
	}

	resp := make([]AthleteResponse, 0, len(records))
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
		h.writeError(c, err, "failed to fetch athlete")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(record))
}

type updateRequest struct {
	Name      *string    `json:"name"`
	Sport     *string    `json:"sport"`
	Country   *string    `json:"country"`
	NickName  *string    `json:"nickName"`
	Bio       *string    `json:"bio"`
	BirthDate *time.Time `json:"birthDate"`
	HeightCm  *float64   `json:"heightCm"`
	WeightKg  *float64   `json:"weightKg"`
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
		Name:      req.Name,
		Sport:     req.Sport,
		Country:   req.Country,
		NickName:  req.NickName,
		Bio:       req.Bio,
		BirthDate: req.BirthDate,
		HeightCm:  req.HeightCm,
		WeightKg:  req.WeightKg,
	})
	if err != nil {
		h.writeError(c, err, "failed to update athlete")
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(record))
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "failed to delete athlete")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "athlete not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
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
