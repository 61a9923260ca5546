package server

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"athlete-backend/internal/athletes"
	"athlete-backend/internal/files"
	"athlete-backend/internal/services/health"
	"athlete-backend/internal/shared/config"
	"athlete-backend/internal/shared/metrics"
	"athlete-backend/internal/shared/server/middleware"
	"athlete-backend/internal/shared/server/respond"
	"athlete-backend/internal/streaming"
)

// RouterDeps carries the constructed handlers the router wires up.
type RouterDeps struct {
	Config         config.Config
	DB             *sql.DB
	AthleteHandler *athletes.Handler
	FileHandler    *files.Handler
	StreamHandler  *streaming.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := health.NewService(deps.DB)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	r.GET("/metrics", metrics.Handler())

	if deps.AthleteHandler != nil {
		deps.AthleteHandler.RegisterRoutes(api)
	}
	if deps.FileHandler != nil {
		deps.FileHandler.RegisterRoutes(api)
	}
	if deps.StreamHandler != nil {
		deps.StreamHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
