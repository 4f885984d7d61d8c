package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "connector_catalog"
)

var (
	// Reconciliation Metrics
	ReconcileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reconcile_duration_seconds",
		Help:      "Time taken for one catalog kind to be reconciled and written.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	ReconcileRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_runs_total",
		Help:      "Count of reconciliation passes.",
	}, []string{"kind", "status"})

	ReconcileLastSuccessTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reconcile_last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful reconciliation.",
	}, []string{"kind"})

	DefinitionChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "definition_changes_total",
		Help:      "Definitions written by reconciliation, by action.",
	}, []string{"kind", "action"})

	// Catalog Metrics
	CatalogDefinitions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_definitions",
		Help:      "Definitions in the latest catalog at the last pass.",
	}, []string{"kind"})
)
