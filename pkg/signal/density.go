package signal

import (
	"fmt"

	"github.com/sanonone/roadgrid/pkg/core"
)

// Density thresholds. A density above GreenThreshold gives green, a density
// in (YellowThreshold, GreenThreshold] gives yellow, anything else red.
const (
	GreenThreshold  = 0.75
	YellowThreshold = 0.50
)

// ErrNoOutgoingRoads is returned when an intersection has no outgoing road to
// use as the density reference.
var ErrNoOutgoingRoads = fmt.Errorf("%w: intersection has no outgoing roads", core.ErrNotFound)

// Classify maps a density to a signal state.
func Classify(density float64) core.SignalState {
	switch {
	case density > GreenThreshold:
		return core.Green
	case density > YellowThreshold:
		return core.Yellow
	default:
		return core.Red
	}
}

// Density sums the vehicles on every outgoing road and divides by the
// capacity of the first one, the reference road. A non-positive reference
// capacity yields 0.
func Density(roads []core.RoadInfo) (float64, error) {
	if len(roads) == 0 {
		return 0, ErrNoOutgoingRoads
	}
	ref := roads[0].Capacity
	if ref <= 0 {
		return 0, nil
	}
	total := 0
	for _, r := range roads {
		total += r.Vehicles
	}
	return float64(total) / float64(ref), nil
}
