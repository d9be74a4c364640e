package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

func TestGetAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ProviderQueries.WithLabelValues("Genius", OutcomeHit).Add(3)
	m.ProviderQueries.WithLabelValues("Genius", OutcomeMiss).Inc()
	m.ProviderQueries.WithLabelValues("LRCLib", OutcomeTransportError).Inc()
	m.CacheLookups.WithLabelValues("hit").Add(2)
	m.CacheRecreations.Inc()

	data, err := NewService(reg).GetAllMetrics(context.Background())
	if err != nil {
		t.Fatalf("GetAllMetrics: %v", err)
	}
	if len(data.ProviderQueries) != 3 {
		t.Fatalf("provider queries = %+v", data.ProviderQueries)
	}
	if first := data.ProviderQueries[0]; first.Type != "Genius" || first.Key != OutcomeHit || first.Value != 3 {
		t.Errorf("first provider metric = %+v", first)
	}
	if data.CacheRecreations != 1 {
		t.Errorf("cache recreations = %d", data.CacheRecreations)
	}

	chart := data.ProviderChartData()
	if len(chart.Labels) != 2 || chart.Labels[0] != "Genius" {
		t.Errorf("labels = %v", chart.Labels)
	}
	if chart.Datasets[0].Data[0] != 3 {
		t.Errorf("Genius hits = %v", chart.Datasets[0].Data)
	}
	if cache := data.CacheChartData(); cache.Datasets[0].Data[0] != 2 {
		t.Errorf("cache chart = %v", cache.Datasets[0].Data)
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.TracksSeen.Inc()

	app := fiber.New()
	RegisterRoutes(app, NewHandler(NewService(reg)))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "soullyrics_nowplaying_tracks_total 1") {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}
