// This file implements the operational methods of the Engine, wrapping the
// graph store and the signal controller with metrics and logging.
package engine

import (
	"strconv"

	"github.com/sanonone/roadgrid/pkg/core"
	"github.com/sanonone/roadgrid/pkg/metrics"
)

// --- Topology ---

// AddIntersection creates intersection id. Adding an existing id is a no-op.
func (e *Engine) AddIntersection(id int) error {
	return e.track("add_intersection", e.Net.AddIntersection(id))
}

// AddRoad adds a one-way road, or a pair of independent directed edges when
// spec.TwoWay is set.
func (e *Engine) AddRoad(spec core.RoadSpec) error {
	if err := e.Net.AddRoad(spec); err != nil {
		return e.track("add_road", err)
	}
	e.recordOccupancy(core.RoadInfo{ID: spec.ID, From: spec.From, To: spec.To})
	if spec.TwoWay {
		e.recordOccupancy(core.RoadInfo{ID: spec.ID, From: spec.To, To: spec.From})
	}
	e.logger.Debug("Road added", "road", spec.ID, "from", spec.From, "to", spec.To, "two_way", spec.TwoWay)
	return nil
}

// --- Traffic ---

// AddVehicles puts count vehicles on the road from->to.
func (e *Engine) AddVehicles(from, to, count int) (core.RoadInfo, error) {
	info, err := e.Net.AddVehicles(from, to, count)
	if err != nil {
		return info, e.track("add_vehicles", err)
	}
	e.recordOccupancy(info)
	return info, nil
}

// RemoveVehicles takes count vehicles off the road from->to.
func (e *Engine) RemoveVehicles(from, to, count int) (core.RoadInfo, error) {
	info, err := e.Net.RemoveVehicles(from, to, count)
	if err != nil {
		return info, e.track("remove_vehicles", err)
	}
	e.recordOccupancy(info)
	return info, nil
}

// --- Signals ---

// AddSignal installs a manual signal on intersection id.
func (e *Engine) AddSignal(id int) (core.SignalInfo, error) {
	sig, err := e.Signals.AddSignal(id)
	return sig, e.track("add_signal", err)
}

// ToggleSignal flips a manual signal between red and green.
func (e *Engine) ToggleSignal(id int) (core.SignalInfo, error) {
	sig, err := e.Signals.Toggle(id)
	return sig, e.track("toggle_signal", err)
}

// StartAutomaticControl hands signal id to the background task.
func (e *Engine) StartAutomaticControl(id int) (core.SignalInfo, error) {
	sig, err := e.Signals.StartAutomatic(id)
	return sig, e.track("start_automatic", err)
}

// StopAutomaticControl returns signal id to manual control.
func (e *Engine) StopAutomaticControl(id int) (core.SignalInfo, error) {
	sig, err := e.Signals.StopAutomatic(id)
	return sig, e.track("stop_automatic", err)
}

// --- Views ---

// Intersection returns one intersection and its outgoing roads.
func (e *Engine) Intersection(id int) (core.IntersectionInfo, error) {
	return e.Net.Intersection(id)
}

// Road returns the directed road from->to.
func (e *Engine) Road(from, to int) (core.RoadInfo, error) {
	return e.Net.Road(from, to)
}

// SignalList lists every installed signal.
func (e *Engine) SignalList() []core.SignalInfo {
	return e.Net.Signals()
}

// Snapshot returns a read-only copy of the whole network.
func (e *Engine) Snapshot() core.Snapshot {
	return e.Net.Snapshot()
}

// Stats returns aggregate occupancy figures.
func (e *Engine) Stats() core.Stats {
	return e.Net.Stats()
}

// track records a failed operation and hands the error back unchanged.
func (e *Engine) track(op string, err error) error {
	if err != nil {
		metrics.OperationErrors.WithLabelValues(op, core.Kind(err)).Inc()
	}
	return err
}

func (e *Engine) recordOccupancy(info core.RoadInfo) {
	metrics.RoadVehicles.WithLabelValues(
		strconv.Itoa(info.ID),
		strconv.Itoa(info.From),
		strconv.Itoa(info.To),
	).Set(float64(info.Vehicles))
}
