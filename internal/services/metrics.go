package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counters for enrichment observability. Failures are counted,
// never inspected; review content stays out of the metrics surface.
var (
	enrichmentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustengine_enrichment_items_total",
		Help: "Enrichment items processed, by kind and outcome.",
	}, []string{"kind", "outcome"})

	providerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustengine_provider_failures_total",
		Help: "Provider call failures, by provider and failure class.",
	}, []string{"provider", "class"})

	trustRecomputes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trustengine_trust_recomputations_total",
		Help: "Trust score recomputation runs.",
	})
)

// Outcome labels for enrichmentOutcomes.
const (
	outcomeEnriched  = "enriched"
	outcomeConflict  = "conflict"
	outcomeFailed    = "failed"
	outcomeMalformed = "malformed"
)

// Failure class labels for providerFailures.
const (
	failureUnavailable = "unavailable"
	failureMalformed   = "malformed"
)
