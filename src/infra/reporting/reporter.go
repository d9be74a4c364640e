// Package reporting collects unexpected provider faults.
package reporting

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contre95/soullyrics/src/features/metrics"
)

// Reporter logs provider faults and counts them per provider.
type Reporter struct {
	metrics *metrics.Metrics
}

// NewReporter creates a reporter. A nil metrics set counts into unregistered collectors.
func NewReporter(m *metrics.Metrics) *Reporter {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Reporter{metrics: m}
}

func (r *Reporter) Report(ctx context.Context, source string, err error) {
	if err == nil {
		return
	}
	r.metrics.ProviderFaults.WithLabelValues(source).Inc()
	slog.ErrorContext(ctx, "Provider fault", "provider", source, "error", err, "type", fmt.Sprintf("%T", err))
}
