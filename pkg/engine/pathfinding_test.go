package engine

import (
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/sanonone/roadgrid/pkg/core"
)

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	opts := DefaultOptions()
	opts.SignalInterval = 20 * time.Millisecond
	eng, err := Open(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { eng.Close() })
	return eng
}

func addRoads(t *testing.T, eng *Engine, specs ...core.RoadSpec) {
	t.Helper()
	for _, s := range specs {
		if err := eng.AddRoad(s); err != nil {
			t.Fatalf("AddRoad(%+v): %v", s, err)
		}
	}
}

func TestShortestPathPrefersShorterRoute(t *testing.T) {
	eng := openTestEngine(t)
	addRoads(t, eng,
		core.RoadSpec{ID: 1, From: 0, To: 1, LengthMeters: 5, Capacity: 10},
		core.RoadSpec{ID: 2, From: 1, To: 2, LengthMeters: 5, Capacity: 10},
		core.RoadSpec{ID: 3, From: 0, To: 2, LengthMeters: 20, Capacity: 10},
	)

	res, err := eng.ShortestPath(0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Path, []int{0, 1, 2}) {
		t.Errorf("want path [0 1 2], got %v", res.Path)
	}
	if res.Distance != 10 {
		t.Errorf("want distance 10, got %v", res.Distance)
	}
	if !slices.Equal(res.Roads, []int{1, 2}) {
		t.Errorf("want roads [1 2], got %v", res.Roads)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	eng := openTestEngine(t)
	addRoads(t, eng,
		core.RoadSpec{ID: 1, From: 0, To: 1, LengthMeters: 5, Capacity: 10},
		core.RoadSpec{ID: 2, From: 3, To: 0, LengthMeters: 5, Capacity: 10},
	)

	_, err := eng.ShortestPath(0, 3)
	if !errors.Is(err, ErrNoPath) || !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNoPath wrapping ErrNotFound, got %v", err)
	}

	if _, err := eng.ShortestPath(0, 99); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown target: want ErrNotFound, got %v", err)
	}
	if _, err := eng.ShortestPath(-1, 0); !errors.Is(err, core.ErrValidation) {
		t.Errorf("negative source: want ErrValidation, got %v", err)
	}
}

func TestShortestPathSameNode(t *testing.T) {
	eng := openTestEngine(t)
	if err := eng.AddIntersection(4); err != nil {
		t.Fatal(err)
	}
	res, err := eng.ShortestPath(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Path, []int{4}) || res.Distance != 0 || len(res.Roads) != 0 {
		t.Errorf("unexpected trivial path %+v", res)
	}
}

func TestShortestPathTieBreaksByDiscoveryOrder(t *testing.T) {
	eng := openTestEngine(t)
	// Two routes of length 10 from 0 to 3: via 2 (added first) and via 1.
	addRoads(t, eng,
		core.RoadSpec{ID: 1, From: 0, To: 2, LengthMeters: 5, Capacity: 10},
		core.RoadSpec{ID: 2, From: 0, To: 1, LengthMeters: 5, Capacity: 10},
		core.RoadSpec{ID: 3, From: 1, To: 3, LengthMeters: 5, Capacity: 10},
		core.RoadSpec{ID: 4, From: 2, To: 3, LengthMeters: 5, Capacity: 10},
	)

	for i := 0; i < 20; i++ {
		res, err := eng.ShortestPath(0, 3)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(res.Path, []int{0, 2, 3}) {
			t.Fatalf("run %d: want [0 2 3], got %v", i, res.Path)
		}
	}
}

func TestShortestPathDoesNotMutate(t *testing.T) {
	eng := openTestEngine(t)
	addRoads(t, eng,
		core.RoadSpec{ID: 1, From: 0, To: 1, LengthMeters: 5, Capacity: 10, TwoWay: true},
		core.RoadSpec{ID: 2, From: 1, To: 2, LengthMeters: 5, Capacity: 10},
	)
	if _, err := eng.AddVehicles(0, 1, 3); err != nil {
		t.Fatal(err)
	}

	before := eng.Net.Roads()
	if _, err := eng.ShortestPath(0, 2); err != nil {
		t.Fatal(err)
	}
	after := eng.Net.Roads()
	if !slices.Equal(before, after) {
		t.Errorf("path query changed the network:\nbefore %+v\nafter  %+v", before, after)
	}
}

// TestShortestPathUnderConcurrentMutation runs queries while writers change
// occupancy and add roads. Run with: go test -race
func TestShortestPathUnderConcurrentMutation(t *testing.T) {
	eng := openTestEngine(t)
	addRoads(t, eng,
		core.RoadSpec{ID: 1, From: 0, To: 1, LengthMeters: 5, Capacity: 50, TwoWay: true},
		core.RoadSpec{ID: 2, From: 1, To: 2, LengthMeters: 5, Capacity: 50, TwoWay: true},
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			eng.AddVehicles(0, 1, 1)
			eng.RemoveVehicles(0, 1, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			eng.AddRoad(core.RoadSpec{ID: 100 + i, From: 2, To: 3 + i, LengthMeters: 1, Capacity: 1})
		}
	}()

	for i := 0; i < 300; i++ {
		res, err := eng.ShortestPath(0, 2)
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if res.Distance != 10 {
			t.Fatalf("query %d: want distance 10, got %v", i, res.Distance)
		}
	}
	wg.Wait()
}
