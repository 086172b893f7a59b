package core

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// SignalMode selects who is allowed to change an intersection's signal state.
type SignalMode int

const (
	ModeNone SignalMode = iota
	ModeManual
	ModeAutomatic
)

func (m SignalMode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeManual:
		return "manual"
	case ModeAutomatic:
		return "automatic"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m SignalMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *SignalMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "none", "":
		*m = ModeNone
	case "manual":
		*m = ModeManual
	case "automatic", "auto":
		*m = ModeAutomatic
	default:
		return validationf("unknown signal mode %q", text)
	}
	return nil
}

// SignalState is the phase shown by a traffic signal.
type SignalState int

const (
	Red SignalState = iota
	Yellow
	Green
)

func (s SignalState) String() string {
	switch s {
	case Red:
		return "red"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s SignalState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SignalState) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "red":
		*s = Red
	case "yellow":
		*s = Yellow
	case "green":
		*s = Green
	default:
		return validationf("unknown signal state %q", text)
	}
	return nil
}

// RoadSpec describes a road to be added to the network.
// A two-way road becomes two independent directed edges sharing ID,
// length and capacity.
type RoadSpec struct {
	ID           int     `json:"id" yaml:"id"`
	From         int     `json:"from" yaml:"from"`
	To           int     `json:"to" yaml:"to"`
	LengthMeters float64 `json:"length_m" yaml:"length_m"`
	Capacity     int     `json:"capacity" yaml:"capacity"`
	TwoWay       bool    `json:"two_way" yaml:"two_way"`
}

// road is one directed edge. ID, endpoints, length and capacity never change
// after creation; vehicles is guarded by mu.
type road struct {
	id       int
	from     int
	to       int
	length   float64
	capacity int
	twoWay   bool

	mu       sync.Mutex
	vehicles int
}

// info copies the road under its lock so readers never observe a torn record.
func (r *road) info() RoadInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infoLocked()
}

func (r *road) infoLocked() RoadInfo {
	return RoadInfo{
		ID:           r.id,
		From:         r.from,
		To:           r.to,
		LengthMeters: r.length,
		Capacity:     r.capacity,
		Vehicles:     r.vehicles,
		TwoWay:       r.twoWay,
	}
}

// intersection is a graph node. The outgoing list is guarded by the
// network's topology lock; the signal fields are guarded by mu.
type intersection struct {
	id  int
	out []*road

	mu        sync.Mutex
	hasSignal bool
	mode      SignalMode
	state     SignalState
}

func (in *intersection) signal() SignalInfo {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.signalLocked()
}

func (in *intersection) signalLocked() SignalInfo {
	return SignalInfo{
		Intersection: in.id,
		HasSignal:    in.hasSignal,
		Mode:         in.mode,
		State:        in.state,
	}
}

// RoadInfo is a point-in-time copy of one directed road.
type RoadInfo struct {
	ID           int     `json:"id"`
	From         int     `json:"from"`
	To           int     `json:"to"`
	LengthMeters float64 `json:"length_m"`
	Capacity     int     `json:"capacity"`
	Vehicles     int     `json:"vehicles"`
	TwoWay       bool    `json:"two_way"`
}

// Utilization is the occupied share of the road's capacity.
func (r RoadInfo) Utilization() float64 {
	if r.Capacity <= 0 {
		return 0
	}
	return float64(r.Vehicles) / float64(r.Capacity)
}

// SignalInfo is a point-in-time copy of an intersection's signal fields.
type SignalInfo struct {
	Intersection int         `json:"intersection"`
	HasSignal    bool        `json:"has_signal"`
	Mode         SignalMode  `json:"mode"`
	State        SignalState `json:"state"`
}

// IntersectionInfo is a point-in-time copy of an intersection and its
// outgoing roads, in insertion order.
type IntersectionInfo struct {
	ID     int        `json:"id"`
	Signal SignalInfo `json:"signal"`
	Roads  []RoadInfo `json:"roads"`
}

// Snapshot is a read-only view of the whole network.
// Intersections are listed in ascending id order.
type Snapshot struct {
	TakenAt       time.Time          `json:"taken_at"`
	Intersections []IntersectionInfo `json:"intersections"`
}

// Stats aggregates occupancy over every directed road.
type Stats struct {
	Intersections   int     `json:"intersections"`
	Roads           int     `json:"roads"`
	DirectedEdges   int     `json:"directed_edges"`
	Signals         int     `json:"signals"`
	AutomaticCount  int     `json:"automatic_signals"`
	TotalVehicles   int     `json:"total_vehicles"`
	TotalCapacity   int     `json:"total_capacity"`
	MeanUtilization float64 `json:"mean_utilization"`
	StdUtilization  float64 `json:"std_utilization"`
	MaxUtilization  float64 `json:"max_utilization"`
	CongestedEdges  int     `json:"congested_edges"`
}
