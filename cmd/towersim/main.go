package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milk9111/towersim/internal/logging"
	"github.com/milk9111/towersim/sim"
)

func main() {
	var opts options
	flag.Float64Var(&opts.Hz, "hz", 0, "ticks per second (0 uses tick_rate from sim.yaml)")
	flag.DurationVar(&opts.Duration, "duration", 0, "simulated time to run for (0 runs until interrupted)")
	flag.BoolVar(&opts.Fast, "fast", false, "step as fast as possible instead of in real time")
	flag.StringVar(&opts.Scene, "scene", "", "scene script in prefabs/scripts (empty uses scene from sim.yaml)")
	flag.StringVar(&opts.PrefabDir, "prefabs", "prefabs", "directory whose files override the embedded prefabs")
	flag.BoolVar(&opts.Watch, "watch", false, "hot reload prefab changes")
	flag.StringVar(&opts.MetricsAddr, "metrics", "", "address to serve /metrics on (empty disables)")
	flag.StringVar(&opts.WSAddr, "ws", "", "address to serve the /ws snapshot feed on (empty disables)")
	flag.StringVar(&opts.Mode, "mode", sim.InGame.String(), "starting mode: menu, in_game or paused")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFormat := flag.String("log-format", "text", "text or json")
	flag.Parse()

	opts.Log = logging.NewFromEnv(logging.Config{Level: *logLevel, Format: *logFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "towersim: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	Hz          float64
	Duration    time.Duration
	Fast        bool
	Scene       string
	PrefabDir   string
	Watch       bool
	MetricsAddr string
	WSAddr      string
	Mode        string
	Log         logging.Logger
}
