package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	records_errors "student-records/pkg/errors"

	"github.com/gin-gonic/gin"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store pinger
}

func NewHealthHandler(store pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeError(c, fmt.Errorf("%w: document store: %w", records_errors.ErrServiceUnavailable, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
