package httpapp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/open-sspm/connector-catalog/internal/http/handlers"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h *handlers.Handlers
	e *echo.Echo
}

// NewEchoServer creates the catalog API server.
func NewEchoServer(store handlers.Store, db handlers.Pinger, syncer handlers.SyncRunner) *EchoServer {
	h := &handlers.Handlers{Store: store, DB: db, Syncer: syncer}
	es := &EchoServer{h: h, e: echo.New()}
	es.e.HTTPErrorHandler = es.httpErrorHandler
	es.registerRoutes()
	return es
}

func (es *EchoServer) registerRoutes() {
	es.e.Use(middleware.Recover())
	es.e.Use(requestID)

	es.e.GET("/healthz", es.h.HandleHealthz)

	api := es.e.Group("/api")
	api.GET("/connector-definitions/:kind", es.h.HandleListDefinitions)
	api.POST("/reconcile", es.h.HandleReconcile)
}

// Handler exposes the router for an http.Server.
func (es *EchoServer) Handler() http.Handler {
	return es.e
}

// ListenAndServe serves on addr until ctx is done.
func (es *EchoServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           es.e,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := strings.TrimSpace(c.Request().Header.Get(echo.HeaderXRequestID))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(handlers.ContextKeyRequestID, id)
		c.Response().Header().Set(echo.HeaderXRequestID, id)
		return next(c)
	}
}

func (es *EchoServer) httpErrorHandler(c *echo.Context, err error) {
	status := httpStatusFromError(err)
	if status >= http.StatusInternalServerError {
		_ = es.h.RenderError(c, err)
		return
	}
	_ = handlers.RenderStatus(c, status)
}

type statusCoder interface {
	StatusCode() int
}

func httpStatusFromError(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 400 && code < 600 {
			return code
		}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code >= 400 && he.Code < 600 {
		return he.Code
	}
	return http.StatusInternalServerError
}
