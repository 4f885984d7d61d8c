package sync

import (
	"context"
	"slices"

	"github.com/open-sspm/connector-catalog/internal/catalog"
)

type syncRunContextKey int

const syncRunContextKeyKinds syncRunContextKey = iota

// WithKindScope limits passes run with ctx to kinds. An empty list leaves ctx
// unscoped.
func WithKindScope(ctx context.Context, kinds ...catalog.Kind) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(kinds) == 0 {
		return ctx
	}
	return context.WithValue(ctx, syncRunContextKeyKinds, slices.Clone(kinds))
}

// KindScopeFromContext returns the kinds set by WithKindScope.
func KindScopeFromContext(ctx context.Context) ([]catalog.Kind, bool) {
	if ctx == nil {
		return nil, false
	}
	kinds, ok := ctx.Value(syncRunContextKeyKinds).([]catalog.Kind)
	if !ok || len(kinds) == 0 {
		return nil, false
	}
	return slices.Clone(kinds), true
}

// scopeKinds keeps the configured kinds that are also in the context scope,
// in configured order.
func scopeKinds(ctx context.Context, configured []catalog.Kind) []catalog.Kind {
	scope, ok := KindScopeFromContext(ctx)
	if !ok {
		return configured
	}
	out := make([]catalog.Kind, 0, len(configured))
	for _, kind := range configured {
		if slices.Contains(scope, kind) {
			out = append(out, kind)
		}
	}
	return out
}
