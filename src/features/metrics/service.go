package metrics

import (
	"context"
	"fmt"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Service summarizes the collected counters for the JSON API.
type Service struct {
	gatherer prometheus.Gatherer
}

// NewService creates a new metrics service.
func NewService(gatherer prometheus.Gatherer) *Service {
	return &Service{gatherer: gatherer}
}

// Metric represents a single metric data point.
type Metric struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// MetricsData holds all metrics for display.
type MetricsData struct {
	ProviderQueries  []Metric `json:"provider_queries"`
	ProviderFaults   []Metric `json:"provider_faults"`
	CacheLookups     []Metric `json:"cache_lookups"`
	CacheRecreations int      `json:"cache_recreations"`
	TracksSeen       int      `json:"tracks_seen"`
}

// GetAllMetrics gathers the current counter values.
func (s *Service) GetAllMetrics(ctx context.Context) (*MetricsData, error) {
	families, err := s.gatherer.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	data := &MetricsData{}
	for _, mf := range families {
		switch mf.GetName() {
		case "soullyrics_provider_queries_total":
			data.ProviderQueries = convertFamily(mf, "provider", "outcome")
		case "soullyrics_provider_faults_total":
			data.ProviderFaults = convertFamily(mf, "provider", "")
		case "soullyrics_cache_lookups_total":
			data.CacheLookups = convertFamily(mf, "", "result")
		case "soullyrics_cache_recreations_total":
			data.CacheRecreations = counterSum(mf)
		case "soullyrics_nowplaying_tracks_total":
			data.TracksSeen = counterSum(mf)
		}
	}
	return data, nil
}

// convertFamily turns a counter family into metrics, using the given labels as type and key.
func convertFamily(mf *dto.MetricFamily, typeLabel, keyLabel string) []Metric {
	metrics := make([]Metric, 0, len(mf.GetMetric()))
	for _, m := range mf.GetMetric() {
		metric := Metric{Value: int(m.GetCounter().GetValue())}
		for _, lp := range m.GetLabel() {
			switch lp.GetName() {
			case typeLabel:
				metric.Type = lp.GetValue()
			case keyLabel:
				metric.Key = lp.GetValue()
			}
		}
		metrics = append(metrics, metric)
	}
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Type != metrics[j].Type {
			return metrics[i].Type < metrics[j].Type
		}
		return metrics[i].Key < metrics[j].Key
	})
	return metrics
}

func counterSum(mf *dto.MetricFamily) int {
	total := 0.0
	for _, m := range mf.GetMetric() {
		total += m.GetCounter().GetValue()
	}
	return int(total)
}
