package core

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// congestedUtilization matches the density above which an automatic signal
// turns green.
const congestedUtilization = 0.75

// Intersection returns a copy of one intersection and its outgoing roads.
func (n *Network) Intersection(id int) (IntersectionInfo, error) {
	if id < 0 {
		return IntersectionInfo{}, validationf("intersection id %d is negative", id)
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	in, ok := n.lookupLocked(id)
	if !ok {
		return IntersectionInfo{}, notFoundf("intersection %d", id)
	}
	return describe(in), nil
}

// Road returns a copy of the directed edge from->to.
func (n *Network) Road(from, to int) (RoadInfo, error) {
	if from < 0 || to < 0 {
		return RoadInfo{}, validationf("intersection ids must be non-negative (%d, %d)", from, to)
	}
	r, err := n.edge(from, to)
	if err != nil {
		return RoadInfo{}, err
	}
	return r.info(), nil
}

// Outgoing returns copies of the roads leaving id, in insertion order.
// This is the read path used by the path finder and the signal controller.
func (n *Network) Outgoing(id int) ([]RoadInfo, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	in, ok := n.lookupLocked(id)
	if !ok {
		return nil, notFoundf("intersection %d", id)
	}
	out := make([]RoadInfo, len(in.out))
	for i, r := range in.out {
		out[i] = r.info()
	}
	return out, nil
}

// Snapshot copies the whole network. Each record is internally consistent;
// records are not guaranteed to be from the same instant.
func (n *Network) Snapshot() Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()

	snap := Snapshot{
		TakenAt:       time.Now().UTC(),
		Intersections: make([]IntersectionInfo, 0, n.intersections.Len()),
	}
	n.intersections.Scan(func(in *intersection) bool {
		snap.Intersections = append(snap.Intersections, describe(in))
		return true
	})
	return snap
}

// Roads lists every directed edge ordered by road id, forward edge first.
func (n *Network) Roads() []RoadInfo {
	n.mu.RLock()
	defer n.mu.RUnlock()

	var out []RoadInfo
	n.roads.Scan(func(e *roadEntry) bool {
		for _, r := range e.edges {
			out = append(out, r.info())
		}
		return true
	})
	return out
}

// Stats aggregates occupancy and signal counts over the network.
func (n *Network) Stats() Stats {
	n.mu.RLock()
	defer n.mu.RUnlock()

	st := Stats{
		Intersections: n.intersections.Len(),
		Roads:         n.roads.Len(),
	}

	var utilization []float64
	n.roads.Scan(func(e *roadEntry) bool {
		for _, r := range e.edges {
			ri := r.info()
			st.DirectedEdges++
			st.TotalVehicles += ri.Vehicles
			st.TotalCapacity += ri.Capacity
			u := ri.Utilization()
			if u > congestedUtilization {
				st.CongestedEdges++
			}
			utilization = append(utilization, u)
		}
		return true
	})

	n.intersections.Scan(func(in *intersection) bool {
		sig := in.signal()
		if sig.HasSignal {
			st.Signals++
		}
		if sig.Mode == ModeAutomatic {
			st.AutomaticCount++
		}
		return true
	})

	switch len(utilization) {
	case 0:
	case 1:
		st.MeanUtilization = utilization[0]
		st.MaxUtilization = utilization[0]
	default:
		st.MeanUtilization, st.StdUtilization = stat.MeanStdDev(utilization, nil)
		st.MaxUtilization = floats.Max(utilization)
	}
	return st
}

// describe must be called with the topology lock held.
func describe(in *intersection) IntersectionInfo {
	info := IntersectionInfo{
		ID:     in.id,
		Signal: in.signal(),
		Roads:  make([]RoadInfo, len(in.out)),
	}
	for i, r := range in.out {
		info.Roads[i] = r.info()
	}
	return info
}
