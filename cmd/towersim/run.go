package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/milk9111/towersim/internal/logging"
	"github.com/milk9111/towersim/observability"
	"github.com/milk9111/towersim/prefabs"
	"github.com/milk9111/towersim/scene"
	"github.com/milk9111/towersim/server"
	"github.com/milk9111/towersim/sim"
	"github.com/prometheus/client_golang/prometheus"
)

func run(ctx context.Context, opts options) error {
	log := logging.OrNoop(opts.Log)
	mode := sim.InGame
	if opts.Mode != "" {
		m, err := sim.ParseMode(opts.Mode)
		if err != nil {
			return err
		}
		mode = m
	}
	if opts.PrefabDir != "" {
		prefabs.Dir = opts.PrefabDir
	}

	cfg, simSpec, err := sim.LoadConfig()
	if err != nil {
		return err
	}
	s, err := sim.New(cfg, sim.WithLogger(log.With(logging.String("component", "sim"))))
	if err != nil {
		return err
	}

	sceneName := opts.Scene
	if sceneName == "" {
		sceneName = simSpec.Scene
	}
	if sceneName != "" {
		if _, err := scene.Load(ctx, s, sceneName, log); err != nil {
			return err
		}
	}

	hz := opts.Hz
	if hz <= 0 && simSpec.TickRate != nil {
		hz = *simSpec.TickRate
	}
	step := sim.DefaultStep
	if hz > 0 {
		step = time.Duration(float64(time.Second) / hz)
	}
	pacing := sim.RealTime
	if opts.Fast {
		pacing = sim.Accelerated
	}
	runner := sim.NewRunner(s, step, pacing, log)

	muxes := map[string]*http.ServeMux{}
	muxFor := func(addr string) *http.ServeMux {
		if m, ok := muxes[addr]; ok {
			return m
		}
		m := http.NewServeMux()
		muxes[addr] = m
		return m
	}

	if opts.MetricsAddr != "" {
		collector, err := observability.NewSimCollector(prometheus.NewRegistry())
		if err != nil {
			return err
		}
		collector.Attach(s)
		runner.AddObserver(collector.Observe)
		muxFor(opts.MetricsAddr).Handle("/metrics", collector.Handler())
	}
	if opts.WSAddr != "" {
		hub := server.NewHub(log.With(logging.String("component", "ws")))
		defer hub.Close()
		runner.AddObserver(hub.Observe)
		muxFor(opts.WSAddr).Handle("/ws", hub)
	}

	for addr, mux := range muxes {
		srv, err := serve(addr, mux, log)
		if err != nil {
			return err
		}
		defer shutdown(srv, log)
	}

	if opts.Watch {
		stopWatch, err := watchPrefabs(ctx, runner, log)
		if err != nil {
			log.Warn(ctx, "prefab watch disabled", logging.Err(err))
		} else {
			defer stopWatch()
		}
	}

	log.Info(ctx, "simulation starting",
		logging.String("step", step.String()),
		logging.Any("duration", opts.Duration.String()),
		logging.String("scene", sceneName),
		logging.Stringer("mode", mode),
	)
	runner.SetMode(mode)
	err = runner.Run(ctx, opts.Duration)

	snap := s.Snapshot()
	log.Info(context.Background(), "simulation stopped",
		logging.Uint64("ticks", snap.Tick),
		logging.Float64("elapsed", snap.Elapsed),
		logging.Int("money", snap.Money),
		logging.Int("targets", len(snap.Targets)),
	)
	return err
}

func serve(addr string, handler http.Handler, log logging.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(context.Background(), "http server failed", logging.String("addr", addr), logging.Err(err))
		}
	}()
	log.Info(context.Background(), "http listening", logging.String("addr", ln.Addr().String()))
	return srv, nil
}

func shutdown(srv *http.Server, log logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn(ctx, "http shutdown", logging.Err(err))
	}
}

// watchPrefabs reloads tuning whenever a YAML prefab changes. The new config
// is applied on the runner goroutine between ticks.
func watchPrefabs(ctx context.Context, runner *sim.Runner, log logging.Logger) (func(), error) {
	dirs := []string{prefabs.Dir}
	if info, err := os.Stat(filepath.Join(prefabs.Dir, "scripts")); err == nil && info.IsDir() {
		dirs = append(dirs, filepath.Join(prefabs.Dir, "scripts"))
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case change, ok := <-w.Events:
				if !ok {
					return
				}
				handleChange(ctx, change, runner, log)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn(ctx, "prefab watch error", logging.Err(err))
			}
		}
	}()

	return func() { _ = w.Close() }, nil
}

func handleChange(ctx context.Context, change prefabs.Change, runner *sim.Runner, log logging.Logger) {
	switch change.Kind {
	case prefabs.ChangeSpec:
		cfg, _, err := sim.LoadConfig()
		if err != nil {
			log.Warn(ctx, "prefab reload rejected", logging.String("file", change.Name), logging.Err(err))
			return
		}
		runner.Enqueue(func(s *sim.Simulation) {
			if err := s.Reconfigure(cfg); err != nil {
				log.Warn(ctx, "prefab reload rejected", logging.String("file", change.Name), logging.Err(err))
			}
		})
		log.Info(ctx, "prefab reloaded", logging.String("file", change.Name))
	case prefabs.ChangeScript:
		// Re-running a scene would duplicate its entities.
		log.Info(ctx, "scene script changed; restart to apply", logging.String("file", change.Name))
	}
}
