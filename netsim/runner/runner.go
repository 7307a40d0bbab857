// SPDX-License-Identifier: GPL-3.0-or-later

// Package runner drives a [*netsim.Simulator] in real time.
//
// The simulator is not goroutine safe. A [*Runner] owns it and
// executes both the ticks and the external commands (e.g., HTTP
// requests changing the settings) on a single goroutine, so that
// commands never interleave with a tick.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rbmk-project/ndnsim/netsim"
)

// TickInterval is the wall time between two ticks.
const TickInterval = time.Second / netsim.TickRate

// ErrStopped is returned by [*Runner.Do] once [*Runner.Run] has returned.
var ErrStopped = errors.New("runner: stopped")

// Config contains configuration for creating a new [*Runner].
type Config struct {
	// Simulator is the MANDATORY simulator to drive.
	Simulator *netsim.Simulator

	// Clock is the optional clock. If nil, we use the real clock.
	Clock clockwork.Clock

	// Logger is the optional structured logger. If this field
	// is nil, we will not be emitting structured logs.
	Logger *slog.Logger

	// AfterStep is the optional hook invoked after each tick on
	// the goroutine running the simulation.
	AfterStep func(sim *netsim.Simulator)
}

// command is a function to execute on the simulation goroutine.
type command struct {
	// fx is the function to execute.
	fx func(sim *netsim.Simulator)

	// done receives the result once fx returned.
	done chan error
}

// Runner runs the simulation loop.
//
// Construct using [New].
type Runner struct {
	// cfg is the configuration.
	cfg Config

	// cmds receives the commands to execute.
	cmds chan command

	// stopped is closed when Run returns.
	stopped chan struct{}
}

// errNoSimulator is returned when the config lacks a simulator.
var errNoSimulator = errors.New("runner: simulator is required")

// New creates a new [*Runner].
func New(config *Config) (*Runner, error) {
	cfg := *config
	if cfg.Simulator == nil {
		return nil, errNoSimulator
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	r := &Runner{
		cfg:     cfg,
		cmds:    make(chan command),
		stopped: make(chan struct{}),
	}
	return r, nil
}

// Run steps the simulation every [TickInterval] and executes the
// commands submitted with [*Runner.Do] until the context is done.
//
// Run MUST be called at most once.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.stopped)
	ticker := r.cfg.Clock.NewTicker(TickInterval)
	defer ticker.Stop()
	r.log("runnerStarted", slog.Duration("interval", TickInterval))
	for {
		select {
		case <-ctx.Done():
			r.log("runnerStopped", slog.Any("err", ctx.Err()))
			return ctx.Err()
		case <-ticker.Chan():
			r.step()
		case cmd := <-r.cmds:
			cmd.done <- r.exec(cmd.fx)
		}
	}
}

// step runs a single tick.
func (r *Runner) step() {
	r.cfg.Simulator.Step()
	if r.cfg.AfterStep != nil {
		r.cfg.AfterStep(r.cfg.Simulator)
	}
}

// exec runs fx turning a panic into an error.
func (r *Runner) exec(fx func(sim *netsim.Simulator)) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("runner: command panicked: %v", p)
			r.log("commandPanic", slog.Any("panic", p))
		}
	}()
	fx(r.cfg.Simulator)
	return nil
}

// Do executes fx on the simulation goroutine, between two ticks, and
// waits for it to return. Once the command has been accepted, Do waits
// for its completion regardless of the context, so that fx can safely
// write variables owned by the caller.
func (r *Runner) Do(ctx context.Context, fx func(sim *netsim.Simulator)) error {
	cmd := command{fx: fx, done: make(chan error, 1)}
	select {
	case r.cmds <- cmd:
		return <-cmd.done
	case <-r.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// log emits a debug structured log, if a logger is configured.
func (r *Runner) log(msg string, attrs ...slog.Attr) {
	if r.cfg.Logger != nil {
		r.cfg.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
	}
}
