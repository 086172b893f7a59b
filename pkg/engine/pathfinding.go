package engine

import (
	"container/heap"
	"errors"
	"fmt"

	"github.com/sanonone/roadgrid/pkg/core"
	"github.com/sanonone/roadgrid/pkg/metrics"
)

// ErrNoPath is returned when the target cannot be reached from the source.
var ErrNoPath = fmt.Errorf("%w: no path", core.ErrNotFound)

// PathResult is a shortest route between two intersections.
type PathResult struct {
	Source   int     `json:"source"`
	Target   int     `json:"target"`
	Path     []int   `json:"path"`  // Intersection ids, source and target included
	Roads    []int   `json:"roads"` // Road ids traversed, len(Path)-1 entries
	Distance float64 `json:"distance_m"`
}

// ShortestPath finds the shortest route from start to end by road length
// (Dijkstra). Among equal-length candidates the one discovered first wins,
// following each intersection's outgoing road order, so results are
// deterministic for a fixed network.
//
// The search only reads the network. It may run while other callers mutate
// it; every road it sees is a consistent copy, but roads added after the
// search started may or may not be considered.
func (e *Engine) ShortestPath(start, end int) (*PathResult, error) {
	res, err := shortestPath(e.Net, start, end)
	switch {
	case err == nil:
		metrics.PathQueriesTotal.WithLabelValues("found").Inc()
	case errors.Is(err, ErrNoPath):
		metrics.PathQueriesTotal.WithLabelValues("no_path").Inc()
	default:
		metrics.PathQueriesTotal.WithLabelValues("error").Inc()
	}
	return res, err
}

type hop struct {
	prev int
	road int
}

func shortestPath(net *core.Network, start, end int) (*PathResult, error) {
	if start < 0 || end < 0 {
		return nil, fmt.Errorf("%w: intersection ids must be non-negative (%d, %d)", core.ErrValidation, start, end)
	}
	if _, err := net.Intersection(start); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if _, err := net.Intersection(end); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	dist := map[int]float64{start: 0}
	via := map[int]hop{}
	done := map[int]bool{}

	var seq uint64
	pq := &frontier{}
	heap.Push(pq, frontierItem{node: start, dist: 0, seq: seq})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(frontierItem)
		if done[cur.node] {
			continue
		}
		done[cur.node] = true
		if cur.node == end {
			break
		}

		roads, err := net.Outgoing(cur.node)
		if err != nil {
			return nil, err
		}
		for _, r := range roads {
			if done[r.To] {
				continue
			}
			alt := cur.dist + r.LengthMeters
			if d, seen := dist[r.To]; seen && alt >= d {
				continue
			}
			dist[r.To] = alt
			via[r.To] = hop{prev: cur.node, road: r.ID}
			seq++
			heap.Push(pq, frontierItem{node: r.To, dist: alt, seq: seq})
		}
	}

	if !done[end] {
		return nil, fmt.Errorf("%w from %d to %d", ErrNoPath, start, end)
	}

	// Walk back from the target.
	path := []int{end}
	roads := []int{}
	for node := end; node != start; {
		h := via[node]
		path = append(path, h.prev)
		roads = append(roads, h.road)
		node = h.prev
	}
	reverse(path)
	reverse(roads)

	return &PathResult{
		Source:   start,
		Target:   end,
		Path:     path,
		Roads:    roads,
		Distance: dist[end],
	}, nil
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
