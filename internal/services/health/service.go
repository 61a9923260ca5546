package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. DB may be nil when the API
// runs against in-memory repositories.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports overall service health. A failing database ping degrades
// the status without taking the endpoint down.
func (s *Service) Status(ctx context.Context) map[string]any {
	status := "healthy"
	database := "disabled"

	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			status = "degraded"
			database = "unreachable"
		} else {
			database = "ok"
		}
	}

	return map[string]any{
		"status":    status,
		"service":   "athlete-backend",
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
