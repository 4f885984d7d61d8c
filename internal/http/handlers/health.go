package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
)

const healthPingTimeout = 2 * time.Second

// HandleHealthz reports ok, or 503 when the database cannot be reached.
func (h *Handlers) HandleHealthz(c *echo.Context) error {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			c.Logger().Warn("health check failed", "error", err)
			return c.String(http.StatusServiceUnavailable, "database unavailable")
		}
	}
	return c.String(http.StatusOK, "ok")
}
