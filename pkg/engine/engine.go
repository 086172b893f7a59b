// Package engine provides the high-level, embedded interface for roadgrid.
//
// It owns the road network (core), the signal controller and its background
// task, and the path finder, and records metrics for every operation. It can
// be used directly within Go applications without the HTTP layer.
//
// Basic usage:
//
//	eng, err := engine.Open(engine.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sanonone/roadgrid/pkg/core"
	"github.com/sanonone/roadgrid/pkg/signal"
)

// Options configures the Engine.
type Options struct {
	// Network bounds intersection creation.
	Network core.Options

	// SignalInterval defines how often automatic signals are recomputed.
	// Default: 5 seconds.
	SignalInterval time.Duration

	// Logger is used by the engine and the signal controller.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns a standard configuration suitable for most use cases.
//
// Defaults:
//   - Network: up to 10000 intersections, auto-created by AddRoad
//   - SignalInterval: 5s
func DefaultOptions() Options {
	return Options{
		Network:        core.DefaultOptions(),
		SignalInterval: signal.DefaultInterval,
	}
}

// Engine is the main entry point for roadgrid.
//
// Use Open() to initialize an Engine and Close() to shut it down gracefully.
type Engine struct {
	// Net is the underlying graph store. Reads are safe; writes should go
	// through Engine methods so metrics stay accurate.
	Net *core.Network

	// Signals drives manual and automatic signal control.
	Signals *signal.Controller

	opts   Options
	logger *slog.Logger

	closeOnce sync.Once
}

// Open creates an empty network and starts the background signal task.
func Open(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SignalInterval <= 0 {
		opts.SignalInterval = signal.DefaultInterval
	}

	net := core.NewNetwork(opts.Network)
	e := &Engine{
		Net: net,
		Signals: signal.New(net, signal.Options{
			Interval: opts.SignalInterval,
			Logger:   opts.Logger,
		}),
		opts:   opts,
		logger: opts.Logger,
	}

	if err := e.Signals.Start(); err != nil {
		return nil, err
	}
	return e, nil
}

// Close stops the background signal task and waits for it to exit.
// It is safe to call more than once.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.Signals.Stop()
	})
	return nil
}
