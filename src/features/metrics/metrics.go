package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for provider queries.
const (
	OutcomeHit            = "hit"
	OutcomeMiss           = "miss"
	OutcomeTransportError = "transport_error"
	OutcomeError          = "error"
)

// Metrics groups every collector the application exports.
type Metrics struct {
	ProviderQueries  *prometheus.CounterVec
	ProviderFaults   *prometheus.CounterVec
	ResolveDuration  *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	CacheRecreations prometheus.Counter
	TracksSeen       prometheus.Counter
}

// New builds the collectors and registers them with reg. A nil registerer leaves
// them unregistered, which is what most tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProviderQueries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soullyrics_provider_queries_total",
				Help: "Total number of lyrics provider invocations",
			},
			[]string{"provider", "outcome"},
		),
		ProviderFaults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soullyrics_provider_faults_total",
				Help: "Total number of unexpected provider faults reported",
			},
			[]string{"provider"},
		),
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "soullyrics_resolve_duration_seconds",
				Help:    "Time spent resolving lyrics for a track",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"phase_result"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "soullyrics_cache_lookups_total",
				Help: "Total number of result cache lookups",
			},
			[]string{"result"},
		),
		CacheRecreations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "soullyrics_cache_recreations_total",
				Help: "Total number of times the result cache was wiped and reopened",
			},
		),
		TracksSeen: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "soullyrics_nowplaying_tracks_total",
				Help: "Total number of track changes observed by the now-playing watcher",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.ProviderQueries,
			m.ProviderFaults,
			m.ResolveDuration,
			m.CacheLookups,
			m.CacheRecreations,
			m.TracksSeen,
		)
	}
	return m
}
