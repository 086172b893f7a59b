// Package core provides the in-memory road network: intersections, directed
// roads with bounded vehicle occupancy, and the per-intersection signal
// records that the signal controller drives.
//
// Locking model:
//   - Network.mu guards the topology (the intersection and road indexes and
//     every outgoing list). Roads and intersections are never deleted, so a
//     pointer obtained under the lock stays valid after it is released.
//   - Each road owns a mutex for its vehicle counter.
//   - Each intersection owns a mutex for its signal fields.
//
// Locks are always taken topology first, entity second, and at most one
// entity lock is held at a time. No lock is held across I/O or a wait.
package core

import (
	"sync"

	"github.com/tidwall/btree"
)

// DefaultMaxIntersections bounds the number of intersections a network may
// hold when Options.MaxIntersections is not set.
const DefaultMaxIntersections = 10000

// Options configures a Network.
type Options struct {
	// MaxIntersections bounds explicit and automatic intersection creation.
	MaxIntersections int

	// AutoCreate lets AddRoad create missing endpoints, within
	// MaxIntersections. When false, endpoints must be declared first.
	AutoCreate bool
}

// DefaultOptions returns the options used when none are supplied.
func DefaultOptions() Options {
	return Options{
		MaxIntersections: DefaultMaxIntersections,
		AutoCreate:       true,
	}
}

// roadEntry groups the directed edges of one logical road.
type roadEntry struct {
	id    int
	edges []*road
}

// Network is the graph store. It is safe for concurrent use.
type Network struct {
	opts Options

	mu            sync.RWMutex
	intersections *btree.BTreeG[*intersection]
	roads         *btree.BTreeG[*roadEntry]
}

// NewNetwork creates an empty network.
func NewNetwork(opts Options) *Network {
	if opts.MaxIntersections <= 0 {
		opts.MaxIntersections = DefaultMaxIntersections
	}
	return &Network{
		opts: opts,
		intersections: btree.NewBTreeG(func(a, b *intersection) bool {
			return a.id < b.id
		}),
		roads: btree.NewBTreeG(func(a, b *roadEntry) bool {
			return a.id < b.id
		}),
	}
}

// Options returns the options the network was created with.
func (n *Network) Options() Options {
	return n.opts
}

// Len returns the number of intersections.
func (n *Network) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.intersections.Len()
}

// AddIntersection creates an intersection with no signal.
// Adding an existing id is a no-op.
func (n *Network) AddIntersection(id int) error {
	if id < 0 {
		return validationf("intersection id %d is negative", id)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.lookupLocked(id); ok {
		return nil
	}
	if n.intersections.Len() >= n.opts.MaxIntersections {
		return capacityf("network already holds the maximum of %d intersections", n.opts.MaxIntersections)
	}
	n.intersections.Set(&intersection{id: id})
	return nil
}

// AddRoad inserts one directed edge, or two independent ones when
// spec.TwoWay is set. Missing endpoints are created when auto-creation is
// enabled and the intersection budget allows it. Either everything is
// applied or nothing is.
func (n *Network) AddRoad(spec RoadSpec) error {
	if err := validateRoad(spec); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.roads.Get(&roadEntry{id: spec.ID}); ok {
		return conflictf("road id %d already exists", spec.ID)
	}

	from, fromOK := n.lookupLocked(spec.From)
	to, toOK := n.lookupLocked(spec.To)

	if fromOK && findEdge(from.out, spec.To) != nil {
		return conflictf("an edge %d->%d already exists", spec.From, spec.To)
	}
	if spec.TwoWay && toOK && findEdge(to.out, spec.From) != nil {
		return conflictf("an edge %d->%d already exists", spec.To, spec.From)
	}

	missing := 0
	if !fromOK {
		missing++
	}
	if !toOK {
		missing++
	}
	if missing > 0 {
		if !n.opts.AutoCreate {
			return notFoundf("road %d references undeclared intersections (%d, %d)", spec.ID, spec.From, spec.To)
		}
		if n.intersections.Len()+missing > n.opts.MaxIntersections {
			return notFoundf("road %d references undeclared intersections and the budget of %d is exhausted",
				spec.ID, n.opts.MaxIntersections)
		}
	}

	// All checks passed; from here on nothing can fail.
	if !fromOK {
		from = &intersection{id: spec.From}
		n.intersections.Set(from)
	}
	if !toOK {
		to = &intersection{id: spec.To}
		n.intersections.Set(to)
	}

	forward := &road{
		id:       spec.ID,
		from:     spec.From,
		to:       spec.To,
		length:   spec.LengthMeters,
		capacity: spec.Capacity,
		twoWay:   spec.TwoWay,
	}
	entry := &roadEntry{id: spec.ID, edges: []*road{forward}}
	from.out = append(from.out, forward)

	if spec.TwoWay {
		backward := &road{
			id:       spec.ID,
			from:     spec.To,
			to:       spec.From,
			length:   spec.LengthMeters,
			capacity: spec.Capacity,
			twoWay:   true,
		}
		entry.edges = append(entry.edges, backward)
		to.out = append(to.out, backward)
	}

	n.roads.Set(entry)
	return nil
}

func validateRoad(spec RoadSpec) error {
	switch {
	case spec.ID < 0:
		return validationf("road id %d is negative", spec.ID)
	case spec.From < 0 || spec.To < 0:
		return validationf("road %d has a negative endpoint (%d, %d)", spec.ID, spec.From, spec.To)
	case spec.From == spec.To:
		return validationf("road %d starts and ends at intersection %d", spec.ID, spec.From)
	case !(spec.LengthMeters > 0):
		return validationf("road %d length must be positive, got %v", spec.ID, spec.LengthMeters)
	case spec.Capacity <= 0:
		return validationf("road %d capacity must be positive, got %d", spec.ID, spec.Capacity)
	}
	return nil
}

// AddVehicles puts count vehicles on the edge from->to.
func (n *Network) AddVehicles(from, to, count int) (RoadInfo, error) {
	r, err := n.edgeForUpdate(from, to, count)
	if err != nil {
		return RoadInfo{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.vehicles+count > r.capacity {
		return r.infoLocked(), capacityf("road %d (%d->%d) holds %d of %d vehicles, cannot add %d",
			r.id, from, to, r.vehicles, r.capacity, count)
	}
	r.vehicles += count
	return r.infoLocked(), nil
}

// RemoveVehicles takes count vehicles off the edge from->to.
func (n *Network) RemoveVehicles(from, to, count int) (RoadInfo, error) {
	r, err := n.edgeForUpdate(from, to, count)
	if err != nil {
		return RoadInfo{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.vehicles < count {
		return r.infoLocked(), capacityf("road %d (%d->%d) holds %d vehicles, cannot remove %d",
			r.id, from, to, r.vehicles, count)
	}
	r.vehicles -= count
	return r.infoLocked(), nil
}

func (n *Network) edgeForUpdate(from, to, count int) (*road, error) {
	if from < 0 || to < 0 {
		return nil, validationf("intersection ids must be non-negative (%d, %d)", from, to)
	}
	if count <= 0 {
		return nil, validationf("vehicle count must be positive, got %d", count)
	}
	return n.edge(from, to)
}

// edge locates from->to. The returned pointer stays valid after the
// topology lock is released because roads are never removed.
func (n *Network) edge(from, to int) (*road, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	in, ok := n.lookupLocked(from)
	if !ok {
		return nil, notFoundf("intersection %d", from)
	}
	r := findEdge(in.out, to)
	if r == nil {
		return nil, notFoundf("no road from %d to %d", from, to)
	}
	return r, nil
}

// findEdge returns the first outgoing edge ending at to.
func findEdge(out []*road, to int) *road {
	for _, r := range out {
		if r.to == to {
			return r
		}
	}
	return nil
}

func (n *Network) lookupLocked(id int) (*intersection, bool) {
	return n.intersections.Get(&intersection{id: id})
}

func (n *Network) lookup(id int) (*intersection, error) {
	if id < 0 {
		return nil, validationf("intersection id %d is negative", id)
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	in, ok := n.lookupLocked(id)
	if !ok {
		return nil, notFoundf("intersection %d", id)
	}
	return in, nil
}
