package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/open-sspm/connector-catalog/internal/catalog"
	"github.com/open-sspm/connector-catalog/internal/catalogsource"
	"github.com/open-sspm/connector-catalog/internal/db/gen"
	"github.com/open-sspm/connector-catalog/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	runStatusSuccess = "success"
	runStatusError   = "error"
)

// Queries is the subset of the generated store used by a pass.
type Queries interface {
	catalog.Writer
	AcquireAdvisoryXactLock(ctx context.Context, key int64) error
	ListConnectorDefinitionsByKind(ctx context.Context, kind string) ([]gen.ConnectorDefinition, error)
	ListConnectorRepositoriesInUse(ctx context.Context, kind string) ([]string, error)
	InsertCatalogSyncRun(ctx context.Context, arg gen.InsertCatalogSyncRunParams) error
}

// TxFunc runs fn inside one transaction. It commits when fn returns nil and
// rolls back otherwise.
type TxFunc func(ctx context.Context, fn func(Queries) error) error

// CatalogLoader returns the latest known catalog.
type CatalogLoader func() (*catalogsource.Catalog, error)

// PoolTx returns a TxFunc backed by pool.
func PoolTx(pool *pgxpool.Pool) TxFunc {
	return func(ctx context.Context, fn func(Queries) error) error {
		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

		if err := fn(gen.New(pool).WithTx(tx)); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}
}

// DBRunner reconciles every configured kind against Postgres. Each kind runs
// in its own transaction under a per-kind advisory lock.
type DBRunner struct {
	withTx   TxFunc
	load     CatalogLoader
	kinds    []catalog.Kind
	reporter Reporter
	now      func() time.Time
}

func NewDBRunner(pool *pgxpool.Pool, load CatalogLoader) *DBRunner {
	if pool == nil {
		return newDBRunner(nil, load)
	}
	return newDBRunner(PoolTx(pool), load)
}

func newDBRunner(withTx TxFunc, load CatalogLoader) *DBRunner {
	return &DBRunner{
		withTx: withTx,
		load:   load,
		kinds:  catalog.Kinds(),
		now:    time.Now,
	}
}

func (r *DBRunner) SetReporter(reporter Reporter) {
	r.reporter = reporter
}

// SetKinds restricts the pass to kinds. Duplicates are dropped.
func (r *DBRunner) SetKinds(kinds ...catalog.Kind) {
	seen := make(map[catalog.Kind]struct{}, len(kinds))
	r.kinds = make([]catalog.Kind, 0, len(kinds))
	for _, kind := range kinds {
		if _, ok := seen[kind]; ok {
			continue
		}
		seen[kind] = struct{}{}
		r.kinds = append(r.kinds, kind)
	}
}

func (r *DBRunner) RunOnce(ctx context.Context) error {
	if r == nil || r.withTx == nil || r.load == nil {
		return errors.New("catalog sync runner is not configured")
	}
	kinds := scopeKinds(ctx, r.kinds)
	if len(kinds) == 0 {
		return ErrNoKinds
	}

	latest, err := r.load()
	if err != nil {
		err = fmt.Errorf("load catalog: %w", err)
		r.report(Event{Stage: "load", Err: err})
		return err
	}

	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, string(kind))
	}
	r.report(Event{
		Stage:   "plan",
		Message: fmt.Sprintf("reconciling %s from %s", strings.Join(names, ", "), latest.Origin),
	})

	errs := make([]error, len(kinds))
	var g errgroup.Group
	for i, kind := range kinds {
		defs := latest.Definitions(kind)
		g.Go(func() error {
			errs[i] = r.runKind(ctx, kind, defs)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (r *DBRunner) runKind(ctx context.Context, kind catalog.Kind, latest []catalog.Definition) error {
	runID := uuid.New()
	started := r.now()
	metrics.CatalogDefinitions.WithLabelValues(string(kind)).Set(float64(len(latest)))
	r.report(Event{Kind: kind, Stage: "reconcile", RunID: runID, Message: fmt.Sprintf("reconciling %d %s definitions", len(latest), kind)})

	var plan catalog.Plan
	err := r.withTx(ctx, func(q Queries) error {
		if err := q.AcquireAdvisoryXactLock(ctx, LockKey("catalog", string(kind))); err != nil {
			return fmt.Errorf("lock %s catalog: %w", kind, err)
		}

		rows, err := q.ListConnectorDefinitionsByKind(ctx, string(kind))
		if err != nil {
			return fmt.Errorf("list %s definitions: %w", kind, err)
		}
		current, err := catalog.FromRows(rows)
		if err != nil {
			return fmt.Errorf("index %s definitions: %w", kind, err)
		}
		inUse, err := q.ListConnectorRepositoriesInUse(ctx, string(kind))
		if err != nil {
			return fmt.Errorf("list %s repositories in use: %w", kind, err)
		}

		plan, err = catalog.ReconcileAndApply(ctx, q, kind, latest, catalog.InUseSet(inUse), current)
		if err != nil {
			return err
		}

		return q.InsertCatalogSyncRun(ctx, runParams(runID, kind, runStatusSuccess, plan.Summary(), "", started))
	})
	metrics.ReconcileDuration.WithLabelValues(string(kind)).Observe(r.now().Sub(started).Seconds())

	if err != nil {
		metrics.ReconcileRunsTotal.WithLabelValues(string(kind), runStatusError).Inc()
		if recErr := r.recordFailure(ctx, runID, kind, err, started); recErr != nil {
			err = errors.Join(err, fmt.Errorf("record failed %s run: %w", kind, recErr))
		}
		r.report(Event{Kind: kind, Stage: "reconcile", RunID: runID, Err: err, Done: true})
		return fmt.Errorf("%s catalog sync: %w", kind, err)
	}

	summary := plan.Summary()
	metrics.ReconcileRunsTotal.WithLabelValues(string(kind), runStatusSuccess).Inc()
	metrics.ReconcileLastSuccessTimestamp.WithLabelValues(string(kind)).Set(float64(r.now().Unix()))
	changes := metrics.DefinitionChangesTotal
	changes.WithLabelValues(string(kind), "inserted").Add(float64(summary.Inserted))
	changes.WithLabelValues(string(kind), "upgraded").Add(float64(summary.Upgraded))
	changes.WithLabelValues(string(kind), "backfilled").Add(float64(summary.Backfilled))

	r.report(Event{Kind: kind, Stage: "reconcile", RunID: runID, Summary: &summary, Done: true})
	return nil
}

// recordFailure stores the failed run outside the rolled back transaction.
func (r *DBRunner) recordFailure(ctx context.Context, runID uuid.UUID, kind catalog.Kind, cause error, started time.Time) error {
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	return r.withTx(recordCtx, func(q Queries) error {
		return q.InsertCatalogSyncRun(recordCtx, runParams(runID, kind, runStatusError, catalog.Summary{}, cause.Error(), started))
	})
}

func (r *DBRunner) report(e Event) {
	if r.reporter == nil {
		return
	}
	if e.At.IsZero() {
		e.At = r.now()
	}
	r.reporter.Report(e)
}

func runParams(runID uuid.UUID, kind catalog.Kind, status string, s catalog.Summary, message string, started time.Time) gen.InsertCatalogSyncRunParams {
	return gen.InsertCatalogSyncRunParams{
		ID:        pgtype.UUID{Bytes: runID, Valid: true},
		Kind:      string(kind),
		Status:    status,
		Inserted:  int32(s.Inserted),
		Updated:   int32(s.Updated),
		Upgraded:  int32(s.Upgraded),
		Message:   message,
		StartedAt: pgtype.Timestamptz{Time: started, Valid: true},
	}
}
