// SPDX-License-Identifier: GPL-3.0-or-later

// Command ndnsim runs the NDN forwarding and caching simulator.
//
// By default, ndnsim serves the HTTP JSON API driving the simulation
// at 60 ticks per second. With --headless, it plays a single game for
// --ticks steps as fast as possible and prints a summary.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/rbmk-project/ndnsim/config"
	"github.com/rbmk-project/ndnsim/metrics"
	"github.com/rbmk-project/ndnsim/netsim"
	"github.com/rbmk-project/ndnsim/netsim/router"
	"github.com/rbmk-project/ndnsim/netsim/runner"
	"github.com/rbmk-project/ndnsim/netsim/session"
	"github.com/rbmk-project/ndnsim/webapi"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "ndnsim: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	// Load .env file. godotenv does not override existing env vars, so
	// process env and explicit exports take precedence.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("ndnsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	config.Flags(fs)
	bellFlag := fs.Bool("bell", false, "ring the terminal bell on cache hits and deliveries")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	logger := newLogger(stderr, cfg.Verbose)

	var observers router.Observers
	if cfg.MetricsEnabled {
		observers = append(observers, metrics.Observer{})
	}
	if *bellFlag {
		observers = append(observers, newBell(stderr))
	}

	sim, err := netsim.New(cfg.Simulator(logger, observers))
	if err != nil {
		return err
	}

	if cfg.Headless {
		return headless(sim, cfg, stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, sim, cfg, logger)
}

// newLogger creates the colored structured logger.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// recordTick is the runner hook updating the metrics.
func recordTick(sim *netsim.Simulator) {
	if sim.State() == session.StatePlaying {
		metrics.RecordTick(sim.Congestion(), sim.InFlight())
	}
}

// serve runs the simulation loop and the HTTP API until ctx is done.
func serve(ctx context.Context, sim *netsim.Simulator, cfg *config.Config, logger *slog.Logger) error {
	rcfg := &runner.Config{Simulator: sim, Logger: logger}
	if cfg.MetricsEnabled {
		rcfg.AfterStep = recordTick
	}
	r, err := runner.New(rcfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: webapi.NewHandler(&webapi.Config{
			Runner:  r,
			Logger:  logger,
			Metrics: cfg.MetricsEnabled,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("serving", slog.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// headless plays a single game for the configured ticks and prints a summary.
func headless(sim *netsim.Simulator, cfg *config.Config, w io.Writer) error {
	sim.StartGame()
	for range cfg.Ticks {
		sim.Step()
		if cfg.MetricsEnabled {
			recordTick(sim)
		}
	}

	snap := sim.Snapshot()
	fmt.Fprintf(w, "topology=%s speed=%s seed=%d ticks=%d\n", snap.Topology, snap.Speed, cfg.Seed, cfg.Ticks)
	fmt.Fprintf(w, "state=%s level=%d elapsed=%.2f\n", snap.State, snap.Level, snap.Elapsed)
	c := snap.Counters
	fmt.Fprintf(w, "sent=%d delivered=%d cacheHits=%d lost=%d score=%d\n",
		c.Sent, c.Delivered, c.CacheHits, c.Lost, c.Score)
	for _, e := range sim.Leaderboard() {
		fmt.Fprintf(w, "leaderboard %s %d\n", e.GameID, e.Score)
	}
	return nil
}
