package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider call outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeTimeout   = "timeout"
	OutcomeMalformed = "malformed"
)

// Token lookup sources.
const (
	SourceSnapshot = "snapshot"
	SourceCache    = "cache"
	SourceNetwork  = "network"
)

var (
	ProviderResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "quote_provider_results_total", Help: "Provider quote attempts by outcome"},
		[]string{"provider", "outcome"},
	)
	ProviderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quote_provider_duration_seconds",
			Help:    "Duration of provider quote attempts",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)
	StoredEnvelopes = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "quote_store_entries", Help: "Aggregated envelopes currently retained"},
	)
	TokenLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "token_lookups_total", Help: "Token metadata lookups by source"},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(ProviderResults, ProviderDuration, StoredEnvelopes, TokenLookups)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
