package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/milk9111/towersim/ecs"
	"github.com/milk9111/towersim/ecs/system"
	"github.com/milk9111/towersim/sim"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles the simulation's Prometheus metrics. Event counters
// are fed by listeners on the simulation's event bus; gauges and the tick
// histogram are fed by Observe, which matches sim.Observer.
type SimCollector struct {
	gatherer prometheus.Gatherer

	Shots        *prometheus.CounterVec
	Hits         prometheus.Counter
	Kills        prometheus.Counter
	Money        prometheus.Gauge
	Entities     *prometheus.GaugeVec
	TickDuration prometheus.Histogram
}

// NewSimCollector registers the metrics against reg, defaulting to the
// global registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	shots, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "towersim_shots_total",
		Help: "Bullets fired, labeled by tower kind.",
	}, []string{"kind"}), "towersim_shots_total")
	if err != nil {
		return nil, err
	}
	hits, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "towersim_hits_total",
		Help: "Bullets that connected with a target.",
	}), "towersim_hits_total")
	if err != nil {
		return nil, err
	}
	kills, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "towersim_kills_total",
		Help: "Targets destroyed.",
	}), "towersim_kills_total")
	if err != nil {
		return nil, err
	}
	money, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "towersim_player_money",
		Help: "Current player balance.",
	}), "towersim_player_money")
	if err != nil {
		return nil, err
	}
	entities, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "towersim_entities",
		Help: "Live entities after the last tick, labeled by role.",
	}, []string{"role"}), "towersim_entities")
	if err != nil {
		return nil, err
	}
	tick, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "towersim_tick_duration_seconds",
		Help:    "Wall-clock time spent in one simulation tick.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
	}), "towersim_tick_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:     gatherer,
		Shots:        shots,
		Hits:         hits,
		Kills:        kills,
		Money:        money,
		Entities:     entities,
		TickDuration: tick,
	}, nil
}

// Attach subscribes the event counters to s.
func (c *SimCollector) Attach(s *sim.Simulation) {
	if c == nil || s == nil {
		return
	}
	s.Subscribe(system.BulletFired, func(_ *ecs.World, evt ecs.Event) {
		kind := "unknown"
		if shot, ok := evt.Data.(system.ShotData); ok {
			kind = shot.Kind.String()
		}
		c.Shots.WithLabelValues(kind).Inc()
	})
	s.Subscribe(system.TargetHit, func(*ecs.World, ecs.Event) { c.Hits.Inc() })
	s.Subscribe(system.TargetDied, func(*ecs.World, ecs.Event) { c.Kills.Inc() })
}

// Observe records one tick. It must run on the goroutine that owns s.
func (c *SimCollector) Observe(s *sim.Simulation, took time.Duration) {
	if c == nil || s == nil {
		return
	}
	c.TickDuration.Observe(took.Seconds())
	c.ObserveSnapshot(s.Snapshot())
}

func (c *SimCollector) ObserveSnapshot(snap sim.Snapshot) {
	if c == nil {
		return
	}
	towers, targets, bullets := snap.Counts()
	c.Entities.WithLabelValues("tower").Set(float64(towers))
	c.Entities.WithLabelValues("target").Set(float64(targets))
	c.Entities.WithLabelValues("bullet").Set(float64(bullets))
	c.Money.Set(float64(snap.Money))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C, name string) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			var zero C
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero C
		return zero, err
	}
	return c, nil
}
