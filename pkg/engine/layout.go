package engine

import (
	"fmt"

	"github.com/sanonone/roadgrid/pkg/core"
)

// SignalLayout places a signal on an intersection at startup.
type SignalLayout struct {
	Intersection int  `yaml:"intersection" json:"intersection"`
	Automatic    bool `yaml:"automatic" json:"automatic"`
}

// Layout is an initial network description, usually read from the config
// file. It is applied once at startup and is not written back anywhere.
type Layout struct {
	Intersections []int           `yaml:"intersections" json:"intersections"`
	Roads         []core.RoadSpec `yaml:"roads" json:"roads"`
	Signals       []SignalLayout  `yaml:"signals" json:"signals"`
}

// Empty reports whether the layout describes nothing.
func (l Layout) Empty() bool {
	return len(l.Intersections) == 0 && len(l.Roads) == 0 && len(l.Signals) == 0
}

// Bootstrap applies a layout in order: intersections, roads, then signals.
// It stops at the first error; everything applied before it is kept.
func (e *Engine) Bootstrap(l Layout) error {
	for _, id := range l.Intersections {
		if err := e.AddIntersection(id); err != nil {
			return fmt.Errorf("layout intersection %d: %w", id, err)
		}
	}
	for _, r := range l.Roads {
		if err := e.AddRoad(r); err != nil {
			return fmt.Errorf("layout road %d: %w", r.ID, err)
		}
	}
	for _, s := range l.Signals {
		if _, err := e.AddSignal(s.Intersection); err != nil {
			return fmt.Errorf("layout signal %d: %w", s.Intersection, err)
		}
		if s.Automatic {
			if _, err := e.StartAutomaticControl(s.Intersection); err != nil {
				return fmt.Errorf("layout signal %d: %w", s.Intersection, err)
			}
		}
	}

	e.logger.Info("Network layout loaded",
		"intersections", e.Net.Len(),
		"roads", len(l.Roads),
		"signals", len(l.Signals),
	)
	return nil
}
