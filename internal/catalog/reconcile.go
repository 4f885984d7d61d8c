package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Plan is the outcome of reconciling one catalog kind. Inserts and Updates hold
// the final values to persist, in the order of the latest catalog.
type Plan struct {
	Kind       Kind
	Inserts    []Definition
	Updates    []Definition
	Upgraded   []string
	Backfilled []string
	Unchanged  int
}

// Summary is a flat count view of a plan.
type Summary struct {
	Inserted   int
	Updated    int
	Upgraded   int
	Backfilled int
	Unchanged  int
}

func (p Plan) Summary() Summary {
	return Summary{
		Inserted:   len(p.Inserts),
		Updated:    len(p.Updates),
		Upgraded:   len(p.Upgraded),
		Backfilled: len(p.Backfilled),
		Unchanged:  p.Unchanged,
	}
}

// Empty reports whether the plan has no writes.
func (p Plan) Empty() bool {
	return len(p.Inserts) == 0 && len(p.Updates) == 0
}

// Reconcile merges the latest catalog of one kind into the persisted one.
//
// A repository missing from current is inserted as-is. A persisted repository
// that is not in use is replaced by latest when latest has a higher version.
// In every other case the persisted version is kept and only absent optional
// fields are filled from latest. Repositories missing from latest are left alone.
//
// The whole call fails on the first malformed version or precondition error, so
// callers never apply a partial plan.
func Reconcile(kind Kind, latest []Definition, inUse map[string]struct{}, current map[string]Definition) (Plan, error) {
	for _, key := range slices.Sorted(maps.Keys(current)) {
		def := current[key]
		if def.Repository != key {
			return Plan{}, fmt.Errorf("%w: current key %q holds repository %q", ErrKeyMismatch, key, def.Repository)
		}
		if def.Kind != kind {
			return Plan{}, fmt.Errorf("%w: current %s is a %s definition, reconciling %s", ErrKeyMismatch, key, def.Kind, kind)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(inUse)) {
		if _, ok := current[key]; !ok {
			return Plan{}, fmt.Errorf("%w: %s", ErrInUseNotPersisted, key)
		}
	}

	plan := Plan{Kind: kind}
	seen := make(map[string]struct{}, len(latest))
	for _, latestDef := range latest {
		key := latestDef.Repository
		if strings.TrimSpace(key) == "" {
			return Plan{}, fmt.Errorf("%w: latest %s definition %q has no repository", ErrKeyMismatch, kind, latestDef.Name)
		}
		if latestDef.Kind != kind {
			return Plan{}, fmt.Errorf("%w: latest %s is a %s definition, reconciling %s", ErrKeyMismatch, key, latestDef.Kind, kind)
		}
		if _, dup := seen[key]; dup {
			return Plan{}, fmt.Errorf("%w: %s", ErrDuplicateRepository, key)
		}
		seen[key] = struct{}{}

		latestVersion, err := parseDefinitionVersion(latestDef)
		if err != nil {
			return Plan{}, err
		}

		curDef, exists := current[key]
		if !exists {
			plan.Inserts = append(plan.Inserts, latestDef.Clone())
			continue
		}

		curVersion, err := parseDefinitionVersion(curDef)
		if err != nil {
			return Plan{}, err
		}

		_, used := inUse[key]
		merged, upgraded := merge(curDef, curVersion, latestDef, latestVersion, used)
		if merged.Equal(curDef) {
			plan.Unchanged++
			continue
		}
		plan.Updates = append(plan.Updates, merged)
		if upgraded {
			plan.Upgraded = append(plan.Upgraded, key)
		} else {
			plan.Backfilled = append(plan.Backfilled, key)
		}
	}

	return plan, nil
}

func merge(cur Definition, curVersion Version, latest Definition, latestVersion Version, inUse bool) (Definition, bool) {
	if !inUse && latestVersion.Compare(curVersion) > 0 {
		out := latest.Clone()
		out.ID = cur.ID
		return out, true
	}

	out := cur.Clone()
	out.Optional = cur.Optional.Backfill(latest.Optional)
	return out, false
}

func parseDefinitionVersion(def Definition) (Version, error) {
	v, err := ParseVersion(def.Version)
	if err != nil {
		var ve *VersionError
		if errors.As(err, &ve) {
			ve.Repository = def.Repository
		}
		return Version{}, err
	}
	return v, nil
}

// InUseSet builds the set form of a repository list.
func InUseSet(repositories []string) map[string]struct{} {
	out := make(map[string]struct{}, len(repositories))
	for _, r := range repositories {
		out[r] = struct{}{}
	}
	return out
}

// IndexByRepository keys definitions by repository.
func IndexByRepository(defs []Definition) (map[string]Definition, error) {
	out := make(map[string]Definition, len(defs))
	for _, d := range defs {
		if _, dup := out[d.Repository]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRepository, d.Repository)
		}
		out[d.Repository] = d
	}
	return out, nil
}
