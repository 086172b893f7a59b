package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/sanonone/roadgrid/pkg/core"
	"github.com/sanonone/roadgrid/pkg/engine"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	eng, err := engine.Open(engine.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { eng.Close() })
	return NewService(eng)
}

func TestNewMCPServer(t *testing.T) {
	eng, err := engine.Open(engine.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	if NewMCPServer(eng) == nil {
		t.Fatal("expected a server")
	}
}

func TestServiceRoadsAndPath(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, args := range []AddRoadArgs{
		{ID: 1, From: 0, To: 1, LengthMeters: 5, Capacity: 10},
		{ID: 2, From: 1, To: 2, LengthMeters: 5, Capacity: 10},
		{ID: 3, From: 0, To: 2, LengthMeters: 15, Capacity: 10},
	} {
		if _, _, err := s.AddRoad(ctx, nil, args); err != nil {
			t.Fatalf("add_road %d: %v", args.ID, err)
		}
	}

	_, road, err := s.AddVehicles(ctx, nil, TrafficArgs{From: 0, To: 1, Count: 9})
	if err != nil {
		t.Fatal(err)
	}
	if road.Vehicles != 9 {
		t.Errorf("want 9 vehicles, got %d", road.Vehicles)
	}
	if _, _, err := s.RemoveVehicles(ctx, nil, TrafficArgs{From: 0, To: 1, Count: 10}); !errors.Is(err, core.ErrCapacity) {
		t.Errorf("want ErrCapacity removing too many, got %v", err)
	}

	_, path, err := s.ShortestPath(ctx, nil, ShortestPathArgs{From: 0, To: 2})
	if err != nil {
		t.Fatal(err)
	}
	if path.Distance != 10 || len(path.Path) != 3 {
		t.Errorf("unexpected path %+v", path)
	}

	_, status, err := s.NetworkStatus(ctx, nil, struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if status.Intersections != 3 || status.TotalVehicles != 9 {
		t.Errorf("unexpected status %+v", status)
	}
	if len(status.CongestedRoads) != 1 || status.CongestedRoads[0].ID != 1 {
		t.Errorf("road 1 at 90%% should be congested, got %+v", status.CongestedRoads)
	}
}

func TestServiceSignalTools(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, _, err := s.AddIntersection(ctx, nil, AddIntersectionArgs{ID: 4}); err != nil {
		t.Fatal(err)
	}
	_, sig, err := s.AddSignal(ctx, nil, SignalArgs{Intersection: 4})
	if err != nil {
		t.Fatal(err)
	}
	if sig.Mode != "manual" || sig.State != "red" {
		t.Errorf("unexpected new signal %+v", sig)
	}

	_, sig, err = s.ToggleSignal(ctx, nil, SignalArgs{Intersection: 4})
	if err != nil || sig.State != "green" {
		t.Errorf("toggle: %+v, %v", sig, err)
	}

	_, sig, err = s.SetSignalMode(ctx, nil, SignalModeArgs{Intersection: 4, Mode: "automatic"})
	if err != nil || sig.Mode != "automatic" {
		t.Errorf("set automatic: %+v, %v", sig, err)
	}
	if _, _, err := s.ToggleSignal(ctx, nil, SignalArgs{Intersection: 4}); !errors.Is(err, core.ErrState) {
		t.Errorf("toggle in automatic mode: want ErrState, got %v", err)
	}

	_, sig, err = s.SetSignalMode(ctx, nil, SignalModeArgs{Intersection: 4, Mode: "manual"})
	if err != nil || sig.Mode != "manual" {
		t.Errorf("set manual: %+v, %v", sig, err)
	}

	for _, mode := range []string{"none", "blinking"} {
		if _, _, err := s.SetSignalMode(ctx, nil, SignalModeArgs{Intersection: 4, Mode: mode}); !errors.Is(err, core.ErrValidation) {
			t.Errorf("mode %q: want ErrValidation, got %v", mode, err)
		}
	}
}
