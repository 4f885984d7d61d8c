package sync

import (
	"context"
	"errors"
	"slices"
	stdsync "sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/open-sspm/connector-catalog/internal/catalog"
	"github.com/open-sspm/connector-catalog/internal/catalogsource"
	"github.com/open-sspm/connector-catalog/internal/db/gen"
)

const testCatalogYAML = `
source_definitions:
  - definition_id: ef69ef6e-aa7f-4af1-a01d-ef775033524e
    name: GitHub
    repository: airbyte/source-github
    version: 0.2.0
    documentation_url: https://docs.airbyte.io/integrations/sources/github
  - definition_id: e094cb9a-26de-4645-8761-65c0c425d1de
    name: Stripe
    repository: airbyte/source-stripe
    version: 0.1.0
destination_definitions:
  - definition_id: 22f6c74f-5699-40ff-833c-4a879ea40133
    name: BigQuery
    repository: airbyte/destination-bigquery
    version: 0.6.1
`

// fakeStore keeps committed state. Writes made inside a transaction are only
// applied when the transaction function returns nil.
type fakeStore struct {
	mu      stdsync.Mutex
	rows    map[string]gen.ConnectorDefinition
	inUse   map[string][]string
	runs    []gen.InsertCatalogSyncRunParams
	locks   []int64
	listErr error
	txCount int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:  map[string]gen.ConnectorDefinition{},
		inUse: map[string][]string{},
	}
}

func (s *fakeStore) seed(kind catalog.Kind, repo, version string) {
	s.rows[repo] = gen.ConnectorDefinition{
		ID:         pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Kind:       string(kind),
		Name:       repo,
		Repository: repo,
		Version:    version,
	}
}

func (s *fakeStore) withTx(ctx context.Context, fn func(Queries) error) error {
	s.mu.Lock()
	s.txCount++
	s.mu.Unlock()

	tx := &fakeTx{store: s, rows: map[string]gen.ConnectorDefinition{}}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for repo, row := range tx.rows {
		s.rows[repo] = row
	}
	s.runs = append(s.runs, tx.runs...)
	return nil
}

func (s *fakeStore) version(repo string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[repo].Version
}

type fakeTx struct {
	store *fakeStore
	rows  map[string]gen.ConnectorDefinition
	runs  []gen.InsertCatalogSyncRunParams
}

func (t *fakeTx) AcquireAdvisoryXactLock(_ context.Context, key int64) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.locks = append(t.store.locks, key)
	return nil
}

func (t *fakeTx) ListConnectorDefinitionsByKind(_ context.Context, kind string) ([]gen.ConnectorDefinition, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.listErr != nil {
		return nil, t.store.listErr
	}
	var out []gen.ConnectorDefinition
	for _, row := range t.store.rows {
		if row.Kind == kind {
			out = append(out, row)
		}
	}
	return out, nil
}

func (t *fakeTx) ListConnectorRepositoriesInUse(_ context.Context, kind string) ([]string, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return slices.Clone(t.store.inUse[kind]), nil
}

func (t *fakeTx) InsertConnectorDefinition(_ context.Context, arg gen.InsertConnectorDefinitionParams) error {
	t.rows[arg.Repository] = gen.ConnectorDefinition{
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

func (t *fakeTx) UpdateConnectorDefinition(_ context.Context, arg gen.UpdateConnectorDefinitionParams) (int64, error) {
	t.store.mu.Lock()
	row, ok := t.store.rows[arg.Repository]
	t.store.mu.Unlock()
	if !ok {
		return 0, nil
	}
	row.Name = arg.Name
	row.Version = arg.Version
	row.DocumentationUrl = arg.DocumentationUrl
	row.Icon = arg.Icon
	row.SourceType = arg.SourceType
	row.ReleaseStage = arg.ReleaseStage
	t.rows[arg.Repository] = row
	return 1, nil
}

func (t *fakeTx) InsertCatalogSyncRun(_ context.Context, arg gen.InsertCatalogSyncRunParams) error {
	t.runs = append(t.runs, arg)
	return nil
}

type recordingReporter struct {
	mu     stdsync.Mutex
	events []Event
}

func (r *recordingReporter) Report(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingReporter) done() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Done {
			out = append(out, e)
		}
	}
	return out
}

func testLoader(t *testing.T) CatalogLoader {
	t.Helper()
	c, err := catalogsource.Parse([]byte(testCatalogYAML), "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return func() (*catalogsource.Catalog, error) { return c, nil }
}

func TestDBRunner_RunOnceReconcilesEveryKind(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.seed(catalog.KindSource, "airbyte/source-github", "0.1.0")
	store.seed(catalog.KindSource, "airbyte/source-stripe", "0.0.1")
	store.inUse[string(catalog.KindSource)] = []string{"airbyte/source-stripe"}

	reporter := &recordingReporter{}
	r := newDBRunner(store.withTx, testLoader(t))
	r.SetReporter(reporter)

	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if got := store.version("airbyte/source-github"); got != "0.2.0" {
		t.Fatalf("github version = %q, want upgraded 0.2.0", got)
	}
	if got := store.version("airbyte/source-stripe"); got != "0.0.1" {
		t.Fatalf("stripe version = %q, in-use definition must keep 0.0.1", got)
	}
	if got := store.version("airbyte/destination-bigquery"); got != "0.6.1" {
		t.Fatalf("bigquery version = %q, want inserted 0.6.1", got)
	}

	if len(store.runs) != 2 {
		t.Fatalf("runs = %d, want one per kind", len(store.runs))
	}
	for _, run := range store.runs {
		if run.Status != runStatusSuccess {
			t.Fatalf("run %s status = %q, want success", run.Kind, run.Status)
		}
		if run.Kind == string(catalog.KindSource) && run.Upgraded != 1 {
			t.Fatalf("source run upgraded = %d, want 1", run.Upgraded)
		}
		if run.Kind == string(catalog.KindDestination) && run.Inserted != 1 {
			t.Fatalf("destination run inserted = %d, want 1", run.Inserted)
		}
	}

	wantLocks := []int64{LockKey("catalog", "source"), LockKey("catalog", "destination")}
	for _, key := range wantLocks {
		if !slices.Contains(store.locks, key) {
			t.Fatalf("locks = %v, missing %d", store.locks, key)
		}
	}

	done := reporter.done()
	if len(done) != 2 {
		t.Fatalf("done events = %d, want 2", len(done))
	}
	for _, e := range done {
		if e.Err != nil || e.Summary == nil || e.RunID == uuid.Nil {
			t.Fatalf("done event = %+v, want summary and run id", e)
		}
	}
}

func TestDBRunner_FailedKindRollsBackAndRecordsRun(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.seed(catalog.KindSource, "airbyte/source-github", "0.1.0")
	store.inUse[string(catalog.KindSource)] = []string{"airbyte/source-missing"}

	r := newDBRunner(store.withTx, testLoader(t))
	r.SetKinds(catalog.KindSource)

	err := r.RunOnce(context.Background())
	if !errors.Is(err, catalog.ErrInUseNotPersisted) {
		t.Fatalf("RunOnce() error = %v, want ErrInUseNotPersisted", err)
	}

	if got := store.version("airbyte/source-github"); got != "0.1.0" {
		t.Fatalf("github version = %q, failed pass must not write", got)
	}
	if _, ok := store.rows["airbyte/source-stripe"]; ok {
		t.Fatal("failed pass inserted a definition")
	}
	if len(store.runs) != 1 || store.runs[0].Status != runStatusError || store.runs[0].Message == "" {
		t.Fatalf("runs = %+v, want one error run with a message", store.runs)
	}
}

func TestDBRunner_KindsAreIndependent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.inUse[string(catalog.KindDestination)] = []string{"airbyte/destination-gone"}

	r := newDBRunner(store.withTx, testLoader(t))
	err := r.RunOnce(context.Background())
	if err == nil {
		t.Fatal("RunOnce() error = nil, want destination failure")
	}

	if got := store.version("airbyte/source-github"); got != "0.2.0" {
		t.Fatalf("github version = %q, source kind should still commit", got)
	}
	if _, ok := store.rows["airbyte/destination-bigquery"]; ok {
		t.Fatal("destination kind should have rolled back")
	}
}

func TestDBRunner_StoreErrorIsReturned(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.listErr = errors.New("connection reset")

	r := newDBRunner(store.withTx, testLoader(t))
	r.SetKinds(catalog.KindSource, catalog.KindSource)

	err := r.RunOnce(context.Background())
	if !errors.Is(err, store.listErr) {
		t.Fatalf("RunOnce() error = %v, want %v", err, store.listErr)
	}
	if store.txCount != 2 {
		t.Fatalf("transactions = %d, want pass plus failure record", store.txCount)
	}
}

func TestDBRunner_LoadError(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	loadErr := errors.New("catalog unavailable")
	r := newDBRunner(store.withTx, func() (*catalogsource.Catalog, error) { return nil, loadErr })

	if err := r.RunOnce(context.Background()); !errors.Is(err, loadErr) {
		t.Fatalf("RunOnce() error = %v, want %v", err, loadErr)
	}
	if store.txCount != 0 {
		t.Fatalf("transactions = %d, want 0", store.txCount)
	}
}

func TestDBRunner_NoKinds(t *testing.T) {
	t.Parallel()

	r := newDBRunner(newFakeStore().withTx, testLoader(t))
	r.SetKinds()
	if err := r.RunOnce(context.Background()); !errors.Is(err, ErrNoKinds) {
		t.Fatalf("RunOnce() error = %v, want ErrNoKinds", err)
	}
}

func TestDBRunner_NotConfigured(t *testing.T) {
	t.Parallel()

	var nilRunner *DBRunner
	if err := nilRunner.RunOnce(context.Background()); err == nil {
		t.Fatal("nil runner RunOnce() error = nil")
	}
	if err := NewDBRunner(nil, nil).RunOnce(context.Background()); err == nil {
		t.Fatal("unconfigured runner RunOnce() error = nil")
	}
}

func TestLockKey_IsStableAndScoped(t *testing.T) {
	t.Parallel()

	if LockKey("catalog", "source") != LockKey(" Catalog ", "SOURCE") {
		t.Fatal("LockKey should normalize case and whitespace")
	}
	if LockKey("catalog", "source") == LockKey("catalog", "destination") {
		t.Fatal("LockKey should differ per name")
	}
	if LockKey("catalogs", "ource") == LockKey("catalog", "source") {
		t.Fatal("LockKey should separate scope and name")
	}
}

func TestDBRunner_ContextScopeLimitsKinds(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	r := newDBRunner(store.withTx, testLoader(t))

	ctx := WithKindScope(context.Background(), catalog.KindDestination)
	if err := r.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if _, ok := store.rows["airbyte/source-github"]; ok {
		t.Fatal("scoped pass touched the source catalog")
	}
	if got := store.version("airbyte/destination-bigquery"); got != "0.6.1" {
		t.Fatalf("bigquery version = %q, want 0.6.1", got)
	}

	r.SetKinds(catalog.KindSource)
	if err := r.RunOnce(ctx); !errors.Is(err, ErrNoKinds) {
		t.Fatalf("RunOnce() error = %v, want ErrNoKinds outside configuration", err)
	}
}
