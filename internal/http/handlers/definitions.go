package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v5"
	"github.com/open-sspm/connector-catalog/internal/catalog"
	"github.com/open-sspm/connector-catalog/internal/db/gen"
)

type definitionJSON struct {
	ID               string  `json:"definition_id"`
	Name             string  `json:"name"`
	Repository       string  `json:"repository"`
	Version          string  `json:"version"`
	DocumentationURL *string `json:"documentation_url,omitempty"`
	Icon             *string `json:"icon,omitempty"`
	SourceType       *string `json:"source_type,omitempty"`
	ReleaseStage     *string `json:"release_stage,omitempty"`
}

type syncRunJSON struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Inserted   int32     `json:"inserted"`
	Updated    int32     `json:"updated"`
	Upgraded   int32     `json:"upgraded"`
	Message    string    `json:"message,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type definitionsResponse struct {
	Kind        string           `json:"kind"`
	Definitions []definitionJSON `json:"definitions"`
	LastSync    *syncRunJSON     `json:"last_sync,omitempty"`
}

// HandleListDefinitions lists the persisted definitions of one kind.
func (h *Handlers) HandleListDefinitions(c *echo.Context) error {
	kind, err := catalog.ParseKind(c.Param("kind"))
	if err != nil {
		return RenderMessage(c, http.StatusNotFound, "unknown connector kind %q", c.Param("kind"))
	}
	if h.Store == nil {
		return RenderStatus(c, http.StatusServiceUnavailable)
	}
	ctx := c.Request().Context()

	rows, err := h.Store.ListConnectorDefinitionsByKind(ctx, string(kind))
	if err != nil {
		return h.RenderError(c, err)
	}

	resp := definitionsResponse{
		Kind:        string(kind),
		Definitions: make([]definitionJSON, 0, len(rows)),
	}
	for _, row := range rows {
		def := catalog.FromRow(row)
		resp.Definitions = append(resp.Definitions, definitionJSON{
			ID:               def.ID.String(),
			Name:             def.Name,
			Repository:       def.Repository,
			Version:          def.Version,
			DocumentationURL: def.Optional.DocumentationURL,
			Icon:             def.Optional.Icon,
			SourceType:       def.Optional.SourceType,
			ReleaseStage:     def.Optional.ReleaseStage,
		})
	}

	run, err := h.Store.GetLatestCatalogSyncRun(ctx, string(kind))
	switch {
	case err == nil:
		resp.LastSync = toSyncRunJSON(run)
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return h.RenderError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func toSyncRunJSON(run gen.CatalogSyncRun) *syncRunJSON {
	out := &syncRunJSON{
		Status:   run.Status,
		Inserted: run.Inserted,
		Updated:  run.Updated,
		Upgraded: run.Upgraded,
		Message:  run.Message,
	}
	if run.ID.Valid {
		out.ID = uuid.UUID(run.ID.Bytes).String()
	}
	if run.StartedAt.Valid {
		out.StartedAt = run.StartedAt.Time.UTC()
	}
	if run.FinishedAt.Valid {
		out.FinishedAt = run.FinishedAt.Time.UTC()
	}
	return out
}
