package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers agrupa los handlers que monta el router.
type Handlers struct {
	Users    *UserHandler
	Admin    *AdminHandler
	Posts    *PostHandler
	Comments *CommentHandler
	Health   *HealthHandler
}

// HealthCheck comprueba que el almacenamiento responde.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	logger *zap.Logger
	check  HealthCheck
}

func NewHealthHandler(logger *zap.Logger, check HealthCheck) *HealthHandler {
	return &HealthHandler{logger: logger, check: check}
}

// Healthz maneja GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
