package catalog

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/open-sspm/connector-catalog/internal/db/gen"
)

// FromRow converts a persisted row into a Definition.
func FromRow(row gen.ConnectorDefinition) Definition {
	def := Definition{
		Kind:       Kind(row.Kind),
		Name:       row.Name,
		Repository: row.Repository,
		Version:    row.Version,
		Optional: OptionalFields{
			DocumentationURL: textPtr(row.DocumentationUrl),
			Icon:             textPtr(row.Icon),
			SourceType:       textPtr(row.SourceType),
			ReleaseStage:     textPtr(row.ReleaseStage),
		},
	}
	if row.ID.Valid {
		def.ID = uuid.UUID(row.ID.Bytes)
	}
	return def
}

// FromRows converts rows and keys them by repository.
func FromRows(rows []gen.ConnectorDefinition) (map[string]Definition, error) {
	defs := make([]Definition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, FromRow(row))
	}
	return IndexByRepository(defs)
}

func insertParams(def Definition) gen.InsertConnectorDefinitionParams {
	return gen.InsertConnectorDefinitionParams{
		ID:               pgUUID(def.ID),
		Kind:             string(def.Kind),
		Name:             def.Name,
		Repository:       def.Repository,
		Version:          def.Version,
		DocumentationUrl: pgText(def.Optional.DocumentationURL),
		Icon:             pgText(def.Optional.Icon),
		SourceType:       pgText(def.Optional.SourceType),
		ReleaseStage:     pgText(def.Optional.ReleaseStage),
	}
}

func updateParams(def Definition) gen.UpdateConnectorDefinitionParams {
	return gen.UpdateConnectorDefinitionParams{
		Kind:             string(def.Kind),
		Repository:       def.Repository,
		Name:             def.Name,
		Version:          def.Version,
		DocumentationUrl: pgText(def.Optional.DocumentationURL),
		Icon:             pgText(def.Optional.Icon),
		SourceType:       pgText(def.Optional.SourceType),
		ReleaseStage:     pgText(def.Optional.ReleaseStage),
	}
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}

func pgText(v *string) pgtype.Text {
	if v == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *v, Valid: true}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
