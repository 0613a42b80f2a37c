package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"video-digest/domain/dto"
	"video-digest/infrastructure/configuration"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	db       Pinger
	features configuration.Features
}

func NewHealthHandler(db Pinger, features configuration.Features) IHealthHandler {
	return &HealthHandler{db: db, features: features}
}

// Healthz returns 503 when the database cannot be reached.
func (h *HealthHandler) Healthz(c *gin.Context) {
	res := dto.HealthRes{
		Status: "ok",
		Features: map[string]bool{
			"officialKey":  h.features.OfficialKey,
			"officialUser": h.features.OfficialUser,
			"audio":        h.features.Audio,
			"summaries":    h.features.Summaries,
			"payments":     h.features.Payments,
		},
		Checks: map[string]string{"database": "skipped"},
	}
	status := http.StatusOK
	if h.db != nil {
		res.Checks["database"] = "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			res.Status = "degraded"
			res.Checks["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, res)
}
