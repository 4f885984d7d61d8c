// Package handlers contains the HTTP handlers of the catalog API.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/open-sspm/connector-catalog/internal/db/gen"
)

const (
	// ContextKeyRequestID stores the request id (X-Request-ID) for logging and client error references.
	ContextKeyRequestID = "request_id"

	// InternalErrorCode is a stable error code safe to return to clients.
	InternalErrorCode = "INTERNAL_ERROR"
)

// SyncRunner triggers a reconciliation pass.
type SyncRunner interface {
	RunOnce(context.Context) error
}

// Store is the read side of the catalog tables.
type Store interface {
	ListConnectorDefinitionsByKind(ctx context.Context, kind string) ([]gen.ConnectorDefinition, error)
	GetLatestCatalogSyncRun(ctx context.Context, kind string) (gen.CatalogSyncRun, error)
}

// Pinger reports database reachability. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(context.Context) error
}

// Handlers groups all HTTP handlers and shared dependencies.
type Handlers struct {
	Store  Store
	DB     Pinger
	Syncer SyncRunner
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// RenderError logs err and returns a generic 500 body.
func (h *Handlers) RenderError(c *echo.Context, err error) error {
	requestID, _ := c.Get(ContextKeyRequestID).(string)
	method, path := "", ""
	if req := c.Request(); req != nil {
		method = req.Method
		if req.URL != nil {
			path = req.URL.Path
		}
	}
	c.Logger().Error("http error",
		"request_id", requestID,
		"method", method,
		"path", path,
		"ip", c.RealIP(),
		"error", err,
	)

	return c.JSON(http.StatusInternalServerError, errorResponse{
		Error:     "Internal server error.",
		Code:      InternalErrorCode,
		Reference: requestID,
	})
}

// RenderStatus returns the status text of code as a JSON error.
func RenderStatus(c *echo.Context, code int) error {
	return c.JSON(code, errorResponse{Error: http.StatusText(code)})
}

// RenderMessage returns a client error with a safe message.
func RenderMessage(c *echo.Context, code int, format string, args ...any) error {
	return c.JSON(code, errorResponse{Error: fmt.Sprintf(format, args...)})
}
