package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/open-sspm/connector-catalog/internal/db/gen"
)

type fakeWriter struct {
	rows      map[string]gen.ConnectorDefinition
	calls     []string
	insertErr map[string]error
	updateErr map[string]error
}

func newFakeWriter(defs ...Definition) *fakeWriter {
	w := &fakeWriter{rows: map[string]gen.ConnectorDefinition{}}
	for _, def := range defs {
		p := insertParams(def)
		w.rows[def.Repository] = gen.ConnectorDefinition{
			ID:               p.ID,
			Kind:             p.Kind,
			Name:             p.Name,
			Repository:       p.Repository,
			Version:          p.Version,
			DocumentationUrl: p.DocumentationUrl,
			Icon:             p.Icon,
			SourceType:       p.SourceType,
			ReleaseStage:     p.ReleaseStage,
		}
	}
	return w
}

func (w *fakeWriter) InsertConnectorDefinition(_ context.Context, arg gen.InsertConnectorDefinitionParams) error {
	w.calls = append(w.calls, "insert "+arg.Repository)
	if err := w.insertErr[arg.Repository]; err != nil {
		return err
	}
	if _, exists := w.rows[arg.Repository]; exists {
		return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	w.rows[arg.Repository] = gen.ConnectorDefinition{
		ID:               arg.ID,
		Kind:             arg.Kind,
		Name:             arg.Name,
		Repository:       arg.Repository,
		Version:          arg.Version,
		DocumentationUrl: arg.DocumentationUrl,
		Icon:             arg.Icon,
		SourceType:       arg.SourceType,
		ReleaseStage:     arg.ReleaseStage,
	}
	return nil
}

func (w *fakeWriter) UpdateConnectorDefinition(_ context.Context, arg gen.UpdateConnectorDefinitionParams) (int64, error) {
	w.calls = append(w.calls, "update "+arg.Repository)
	if err := w.updateErr[arg.Repository]; err != nil {
		return 0, err
	}
	row, exists := w.rows[arg.Repository]
	if !exists || row.Kind != arg.Kind {
		return 0, nil
	}
	row.Name = arg.Name
	row.Version = arg.Version
	row.DocumentationUrl = arg.DocumentationUrl
	row.Icon = arg.Icon
	row.SourceType = arg.SourceType
	row.ReleaseStage = arg.ReleaseStage
	w.rows[arg.Repository] = row
	return 1, nil
}

func (w *fakeWriter) current(t *testing.T) map[string]Definition {
	t.Helper()
	rows := make([]gen.ConnectorDefinition, 0, len(w.rows))
	for _, row := range w.rows {
		rows = append(rows, row)
	}
	out, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	return out
}

func TestReconcileAndApply_WritesMergedValues(t *testing.T) {
	t.Parallel()

	w := newFakeWriter(withoutDocsAndType(githubSource("0.0.0")), sourceDefinition("airbyte/source-stripe", "1.0.0"))
	latest := []Definition{
		githubSource("0.1000.0"),
		sourceDefinition("airbyte/source-stripe", "1.0.0"),
		sourceDefinition("airbyte/source-new", "0.1.0"),
	}

	plan, err := ReconcileAndApply(context.Background(), w, KindSource, latest, InUseSet([]string{githubRepository}), w.current(t))
	if err != nil {
		t.Fatalf("ReconcileAndApply() error = %v", err)
	}
	if got := plan.Summary(); got.Inserted != 1 || got.Updated != 1 || got.Unchanged != 1 {
		t.Fatalf("Summary() = %+v", got)
	}

	after := w.current(t)
	if len(after) != 3 {
		t.Fatalf("record count = %d, want 3", len(after))
	}
	if got := after[githubRepository]; !got.Equal(githubSource("0.0.0")) {
		t.Fatalf("github = %+v, want backfilled 0.0.0", got)
	}
	if got := after["airbyte/source-new"]; !got.Equal(sourceDefinition("airbyte/source-new", "0.1.0")) {
		t.Fatalf("new source = %+v, want inserted verbatim", got)
	}

	want := []string{"insert airbyte/source-new", "update " + githubRepository}
	if len(w.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", w.calls, want)
	}
	for i := range want {
		if w.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", w.calls, want)
		}
	}
}

func TestReconcileAndApply_ReconcileErrorWritesNothing(t *testing.T) {
	t.Parallel()

	w := newFakeWriter(githubSource("0.1.0"))
	latest := []Definition{sourceDefinition("airbyte/source-new", "0.1.0"), githubSource("broken")}

	_, err := ReconcileAndApply(context.Background(), w, KindSource, latest, nil, w.current(t))
	if !errors.Is(err, ErrMalformedVersion) {
		t.Fatalf("ReconcileAndApply() error = %v, want ErrMalformedVersion", err)
	}
	if len(w.calls) != 0 {
		t.Fatalf("calls = %v, want none", w.calls)
	}
}

func TestApply_StopsAtFirstFailureAndKeepsStoreError(t *testing.T) {
	t.Parallel()

	storeErr := &pgconn.PgError{Code: "08006", Message: "connection failure"}
	w := newFakeWriter()
	w.insertErr = map[string]error{"airbyte/source-b": storeErr}

	plan := Plan{
		Kind: KindSource,
		Inserts: []Definition{
			sourceDefinition("airbyte/source-a", "1.0.0"),
			sourceDefinition("airbyte/source-b", "1.0.0"),
			sourceDefinition("airbyte/source-c", "1.0.0"),
		},
	}

	err := Apply(context.Background(), w, plan)
	if err == nil {
		t.Fatal("Apply() error = nil, want store error")
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "08006" {
		t.Fatalf("Apply() error = %v, want wrapped *pgconn.PgError 08006", err)
	}
	if len(w.calls) != 2 {
		t.Fatalf("calls = %v, want stop after the failing insert", w.calls)
	}
}

func TestApply_UpdateOfMissingRowFails(t *testing.T) {
	t.Parallel()

	w := newFakeWriter()
	plan := Plan{Kind: KindSource, Updates: []Definition{githubSource("1.0.0")}}

	if err := Apply(context.Background(), w, plan); !errors.Is(err, ErrDefinitionNotFound) {
		t.Fatalf("Apply() error = %v, want ErrDefinitionNotFound", err)
	}
}

func TestApply_UpdateErrorIsPropagated(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	w := newFakeWriter(githubSource("1.0.0"))
	w.updateErr = map[string]error{githubRepository: boom}
	plan := Plan{Kind: KindSource, Updates: []Definition{githubSource("1.1.0")}}

	if err := Apply(context.Background(), w, plan); !errors.Is(err, boom) {
		t.Fatalf("Apply() error = %v, want %v", err, boom)
	}
}

func TestApply_NilWriter(t *testing.T) {
	t.Parallel()

	if err := Apply(context.Background(), nil, Plan{Kind: KindSource}); err == nil {
		t.Fatal("Apply(nil) error = nil, want error")
	}
}

func TestFromRow_RoundTripsNullableFields(t *testing.T) {
	t.Parallel()

	def := withoutDocsAndType(githubSource("1.2.3"))
	w := newFakeWriter(def)
	got := FromRow(w.rows[githubRepository])
	if !got.Equal(def) {
		t.Fatalf("FromRow() = %+v, want %+v", got, def)
	}
	if got.Optional.DocumentationURL != nil || got.Optional.SourceType != nil {
		t.Fatalf("null columns must map to nil fields")
	}
}
