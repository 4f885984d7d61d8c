package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestReconcile_MixedCatalogPlan(t *testing.T) {
	t.Parallel()

	stale := sourceDefinition("airbyte/source-stripe", "0.1.0")
	pinned := withoutDocsAndType(githubSource("0.1.0"))
	current := byRepository(stale, pinned, sourceDefinition("airbyte/source-retired", "1.0.0"))

	latestStripe := sourceDefinition("airbyte/source-stripe", "0.10.0")
	latestStripe.ID = githubDefinitionID
	latestStripe.Name = "Stripe"
	latest := []Definition{
		githubSource("0.2.0"),
		latestStripe,
		sourceDefinition("airbyte/source-new", "0.0.1"),
	}

	got, err := Reconcile(KindSource, latest, InUseSet([]string{githubRepository}), current)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	upgradedStripe := latestStripe.Clone()
	upgradedStripe.ID = stale.ID
	want := Plan{
		Kind:       KindSource,
		Inserts:    []Definition{sourceDefinition("airbyte/source-new", "0.0.1")},
		Updates:    []Definition{githubSource("0.1.0"), upgradedStripe},
		Upgraded:   []string{"airbyte/source-stripe"},
		Backfilled: []string{githubRepository},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("Reconcile() plan mismatch (-want +got):\n%s", diff)
	}
	if got.Summary() != (Summary{Inserted: 1, Updated: 2, Upgraded: 1, Backfilled: 1}) {
		t.Fatalf("Summary() = %+v", got.Summary())
	}
}
