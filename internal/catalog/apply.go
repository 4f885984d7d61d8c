package catalog

import (
	"context"
	"fmt"

	"github.com/open-sspm/connector-catalog/internal/db/gen"
)

// Writer is the write side of the store. *gen.Queries bound to a transaction
// with WithTx satisfies it.
type Writer interface {
	InsertConnectorDefinition(ctx context.Context, arg gen.InsertConnectorDefinitionParams) error
	UpdateConnectorDefinition(ctx context.Context, arg gen.UpdateConnectorDefinitionParams) (int64, error)
}

// Apply executes a plan against w. It must run inside a transaction owned by
// the caller: Apply stops at the first failing write and returns it, leaving
// commit or rollback to the caller.
func Apply(ctx context.Context, w Writer, plan Plan) error {
	if w == nil {
		return fmt.Errorf("apply %s catalog: writer is nil", plan.Kind)
	}

	for _, def := range plan.Inserts {
		if err := w.InsertConnectorDefinition(ctx, insertParams(def)); err != nil {
			return fmt.Errorf("insert %s definition %s: %w", def.Kind, def.Repository, err)
		}
	}

	for _, def := range plan.Updates {
		n, err := w.UpdateConnectorDefinition(ctx, updateParams(def))
		if err != nil {
			return fmt.Errorf("update %s definition %s: %w", def.Kind, def.Repository, err)
		}
		if n == 0 {
			return fmt.Errorf("update %s definition %s: %w", def.Kind, def.Repository, ErrDefinitionNotFound)
		}
	}

	return nil
}

// ReconcileAndApply computes the plan for one kind and writes it through w.
// Nothing is written when reconciliation fails.
func ReconcileAndApply(ctx context.Context, w Writer, kind Kind, latest []Definition, inUse map[string]struct{}, current map[string]Definition) (Plan, error) {
	plan, err := Reconcile(kind, latest, inUse, current)
	if err != nil {
		return Plan{}, fmt.Errorf("reconcile %s catalog: %w", kind, err)
	}
	if err := Apply(ctx, w, plan); err != nil {
		return plan, err
	}
	return plan, nil
}
