package metrics

// ChartData represents data for Chart.js charts.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset represents a Chart.js dataset.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
	BorderColor     []string  `json:"borderColor,omitempty"`
}

var outcomeColors = map[string]string{
	OutcomeHit:            "#4BC0C0",
	OutcomeMiss:           "#C9CBCF",
	OutcomeTransportError: "#FFCE56",
	OutcomeError:          "#FF6384",
}

// ProviderChartData converts provider query counts to a stacked bar chart, one
// dataset per outcome.
func (m *MetricsData) ProviderChartData() *ChartData {
	var labels []string
	index := map[string]int{}
	for _, metric := range m.ProviderQueries {
		if _, ok := index[metric.Type]; !ok {
			index[metric.Type] = len(labels)
			labels = append(labels, metric.Type)
		}
	}

	outcomes := []string{OutcomeHit, OutcomeMiss, OutcomeTransportError, OutcomeError}
	datasets := make([]Dataset, len(outcomes))
	for i, outcome := range outcomes {
		datasets[i] = Dataset{
			Label:           outcome,
			Data:            make([]float64, len(labels)),
			BackgroundColor: []string{outcomeColors[outcome]},
		}
	}
	for _, metric := range m.ProviderQueries {
		for i, outcome := range outcomes {
			if metric.Key == outcome {
				datasets[i].Data[index[metric.Type]] += float64(metric.Value)
			}
		}
	}

	return &ChartData{Labels: labels, Datasets: datasets}
}

// CacheChartData converts cache lookups to pie chart format.
func (m *MetricsData) CacheChartData() *ChartData {
	labels := []string{"Hit", "Miss", "Error"}
	data := []float64{0, 0, 0}

	for _, metric := range m.CacheLookups {
		switch metric.Key {
		case "hit":
			data[0] += float64(metric.Value)
		case "miss":
			data[1] += float64(metric.Value)
		case "error":
			data[2] += float64(metric.Value)
		}
	}

	return &ChartData{
		Labels: labels,
		Datasets: []Dataset{{
			Label:           "Cache Lookups",
			Data:            data,
			BackgroundColor: []string{"#4BC0C0", "#36A2EB", "#FF6384"},
		}},
	}
}
