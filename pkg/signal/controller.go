// Package signal drives the traffic signals of a core.Network: the manual
// state machine (install, toggle, switch mode) and the background task that
// recomputes automatic signals from local congestion.
package signal

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sanonone/roadgrid/pkg/core"
	"github.com/sanonone/roadgrid/pkg/metrics"
)

// DefaultInterval is how often automatic signals are recomputed.
const DefaultInterval = 5 * time.Second

// Options configures a Controller.
type Options struct {
	// Interval between two recomputation ticks. Defaults to DefaultInterval.
	Interval time.Duration

	// Logger receives tick diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// TickReport summarises one recomputation pass.
type TickReport struct {
	Visited int `json:"visited"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Controller owns the signal state machine and the periodic task.
type Controller struct {
	net      *core.Network
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	closed  chan struct{}
	done    chan struct{}
}

// New creates a controller for net. The periodic task is not running until
// Start is called.
func New(net *core.Network, opts Options) *Controller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		net:      net,
		interval: opts.Interval,
		logger:   opts.Logger.With("component", "signal"),
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// AddSignal installs a manual signal showing red on intersection id.
func (c *Controller) AddSignal(id int) (core.SignalInfo, error) {
	sig, err := c.net.InstallSignal(id)
	if err != nil {
		return sig, err
	}
	c.logger.Info("Signal installed", "intersection", id)
	return sig, nil
}

// Toggle flips a manual signal between red and green.
func (c *Controller) Toggle(id int) (core.SignalInfo, error) {
	sig, err := c.net.ToggleSignal(id)
	if err != nil {
		return sig, err
	}
	metrics.SignalStateChanges.WithLabelValues(sig.State.String()).Inc()
	return sig, nil
}

// StartAutomatic hands the signal to the periodic task. The current state is
// kept until the next tick recomputes it.
func (c *Controller) StartAutomatic(id int) (core.SignalInfo, error) {
	sig, err := c.net.SetSignalMode(id, core.ModeAutomatic)
	if err != nil {
		return sig, err
	}
	c.logger.Info("Automatic control started", "intersection", id, "state", sig.State)
	return sig, nil
}

// StopAutomatic returns the signal to manual control, keeping its last
// computed state.
func (c *Controller) StopAutomatic(id int) (core.SignalInfo, error) {
	sig, err := c.net.SetSignalMode(id, core.ModeManual)
	if err != nil {
		return sig, err
	}
	c.logger.Info("Automatic control stopped", "intersection", id, "state", sig.State)
	return sig, nil
}

// Recompute derives the state of one automatic signal from the density of
// its outgoing roads and writes it. It reports whether the state changed.
func (c *Controller) Recompute(id int) (core.SignalInfo, bool, error) {
	roads, err := c.net.Outgoing(id)
	if err != nil {
		return core.SignalInfo{}, false, err
	}
	density, err := Density(roads)
	if err != nil {
		return core.SignalInfo{}, false, fmt.Errorf("intersection %d: %w", id, err)
	}
	return c.net.ApplyAutomaticState(id, Classify(density))
}

// Tick recomputes every automatic signal once. A failure on one
// intersection is logged and skipped; the others are still visited.
func (c *Controller) Tick() TickReport {
	metrics.SignalTicksTotal.Inc()

	var report TickReport
	for _, id := range c.net.AutomaticSignals() {
		report.Visited++

		sig, changed, err := c.Recompute(id)
		switch {
		case errors.Is(err, core.ErrState):
			// Switched to manual since the listing; nothing to do.
			report.Skipped++
			metrics.SignalRecomputeTotal.WithLabelValues("skipped").Inc()
		case err != nil:
			report.Skipped++
			metrics.SignalRecomputeTotal.WithLabelValues("skipped").Inc()
			c.logger.Warn("Signal recompute skipped", "intersection", id, "error", err)
		case changed:
			report.Updated++
			metrics.SignalRecomputeTotal.WithLabelValues("updated").Inc()
			metrics.SignalStateChanges.WithLabelValues(sig.State.String()).Inc()
			c.logger.Debug("Signal state changed", "intersection", id, "state", sig.State)
		default:
			metrics.SignalRecomputeTotal.WithLabelValues("unchanged").Inc()
		}
	}
	return report
}

// Start launches the periodic task. It can be called at most once.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return fmt.Errorf("%w: signal controller already stopped", core.ErrState)
	}
	if c.started {
		return fmt.Errorf("%w: signal controller already running", core.ErrState)
	}
	c.started = true

	go c.run()
	c.logger.Info("Signal controller started", "interval", c.interval.String())
	return nil
}

// Stop signals the periodic task to exit and blocks until it has. Once Stop
// returns no further tick runs. Calling Stop more than once, or without
// Start, is safe.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		<-c.done
		return
	}
	c.stopped = true
	started := c.started
	close(c.closed)
	c.mu.Unlock()

	if !started {
		close(c.done)
		return
	}
	<-c.done
	c.logger.Info("Signal controller stopped")
}

func (c *Controller) run() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			// Both channels may be ready; never start a tick after Stop.
			select {
			case <-c.closed:
				return
			default:
			}
			c.Tick()
		}
	}
}
