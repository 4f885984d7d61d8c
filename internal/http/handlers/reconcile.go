package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/open-sspm/connector-catalog/internal/catalog"
	"github.com/open-sspm/connector-catalog/internal/sync"
)

type reconcileResponse struct {
	Status string `json:"status"`
}

// HandleReconcile runs one reconciliation pass, optionally limited to the kind
// query parameter. It answers 409 when a pass is already in progress.
func (h *Handlers) HandleReconcile(c *echo.Context) error {
	if h.Syncer == nil {
		return RenderMessage(c, http.StatusServiceUnavailable, "catalog sync is disabled")
	}

	ctx := c.Request().Context()
	if raw := strings.TrimSpace(c.QueryParam("kind")); raw != "" {
		kind, err := catalog.ParseKind(raw)
		if err != nil {
			return RenderMessage(c, http.StatusBadRequest, "unknown connector kind %q", raw)
		}
		ctx = sync.WithKindScope(ctx, kind)
	}

	err := h.Syncer.RunOnce(ctx)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, reconcileResponse{Status: "success"})
	case errors.Is(err, sync.ErrSyncAlreadyRunning):
		return RenderMessage(c, http.StatusConflict, "catalog sync is already running")
	case errors.Is(err, sync.ErrNoKinds):
		return RenderMessage(c, http.StatusServiceUnavailable, "no connector catalog kinds are configured")
	default:
		return h.RenderError(c, err)
	}
}
