package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/towersim/common"
	"github.com/milk9111/towersim/ecs/component"
	"github.com/milk9111/towersim/sim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCollectorCountsSimulationEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("NewSimCollector: %v", err)
	}

	s, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	c.Attach(s)

	if _, err := s.SpawnPlayer(100); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SpawnTower(component.TowerTomato, common.Vec3{}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SpawnTarget(common.V3(1, 0, 0), 0, 1); err != nil {
		t.Fatal(err)
	}

	// fires at 1.0s; a 4.5 speed bullet crosses 1 unit within three 0.1s ticks
	for i := 0; i < 15; i++ {
		s.Advance(0.1)
		c.Observe(s, time.Millisecond)
	}

	if got := testutil.ToFloat64(c.Shots.WithLabelValues("tomato")); got != 1 {
		t.Fatalf("towersim_shots_total{kind=tomato} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Hits); got != 1 {
		t.Fatalf("towersim_hits_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Kills); got != 1 {
		t.Fatalf("towersim_kills_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Money); got != 110 {
		t.Fatalf("towersim_player_money = %v, want 110", got)
	}
	if got := testutil.ToFloat64(c.Entities.WithLabelValues("target")); got != 0 {
		t.Fatalf("towersim_entities{role=target} = %v, want 0", got)
	}
	if got := testutil.ToFloat64(c.Entities.WithLabelValues("tower")); got != 1 {
		t.Fatalf("towersim_entities{role=tower} = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "towersim_tick_duration_seconds"); count != 15 {
		t.Fatalf("tick histogram sample_count = %d, want 15", count)
	}
}

func TestCollectorReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSimCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewSimCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimCollector: %v", err)
	}
	first.Kills.Inc()
	if got := testutil.ToFloat64(second.Kills); got != 1 {
		t.Fatalf("collectors should share the registered counter, got %v", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	c.ObserveSnapshot(sim.Snapshot{Money: 37, Towers: make([]sim.TowerState, 2)})
	c.Shots.WithLabelValues("basic").Inc()

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"towersim_player_money 37",
		`towersim_entities{role="tower"} 2`,
		`towersim_shots_total{kind="basic"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in /metrics output:\n%s", want, body)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	families, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name || mf.GetType() != dto.MetricType_HISTOGRAM || len(mf.Metric) == 0 {
			continue
		}
		return mf.Metric[0].GetHistogram().GetSampleCount()
	}
	return 0
}
