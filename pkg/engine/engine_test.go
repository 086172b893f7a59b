package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/sanonone/roadgrid/pkg/core"
)

func TestOpenCloseIdempotent(t *testing.T) {
	eng, err := Open(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Close(); err != nil {
		t.Fatal(err)
	}
	if err := eng.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestBootstrapLayout(t *testing.T) {
	eng := openTestEngine(t)

	layout := Layout{
		Intersections: []int{0, 1, 2},
		Roads: []core.RoadSpec{
			{ID: 1, From: 0, To: 1, LengthMeters: 100, Capacity: 10, TwoWay: true},
			{ID: 2, From: 1, To: 2, LengthMeters: 50, Capacity: 5},
		},
		Signals: []SignalLayout{
			{Intersection: 1, Automatic: true},
			{Intersection: 0},
		},
	}
	if err := eng.Bootstrap(layout); err != nil {
		t.Fatal(err)
	}

	st := eng.Stats()
	if st.Intersections != 3 || st.DirectedEdges != 3 || st.Signals != 2 || st.AutomaticCount != 1 {
		t.Errorf("unexpected stats after bootstrap: %+v", st)
	}

	// Re-applying fails on the duplicate road and reports which one.
	err := eng.Bootstrap(layout)
	if !errors.Is(err, core.ErrConflict) {
		t.Errorf("want ErrConflict re-applying layout, got %v", err)
	}
}

func TestManualAndAutomaticControlThroughEngine(t *testing.T) {
	eng := openTestEngine(t)
	addRoads(t, eng, core.RoadSpec{ID: 1, From: 0, To: 1, LengthMeters: 10, Capacity: 10})
	if _, err := eng.AddSignal(0); err != nil {
		t.Fatal(err)
	}

	if _, err := eng.StartAutomaticControl(0); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.ToggleSignal(0); !errors.Is(err, core.ErrState) {
		t.Fatalf("toggle under automatic control: want ErrState, got %v", err)
	}

	if _, err := eng.AddVehicles(0, 1, 8); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		sig, err := eng.Net.Signal(0)
		if err != nil {
			t.Fatal(err)
		}
		if sig.State == core.Green {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("automatic control never turned the signal green, state %s", sig.State)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := eng.StopAutomaticControl(0); err != nil {
		t.Fatal(err)
	}
	sig, err := eng.ToggleSignal(0)
	if err != nil {
		t.Fatalf("toggle after stopping automatic control: %v", err)
	}
	if sig.State != core.Red {
		t.Errorf("toggle from green: want red, got %s", sig.State)
	}
}

func TestSnapshotThroughEngine(t *testing.T) {
	eng := openTestEngine(t)
	addRoads(t, eng, core.RoadSpec{ID: 7, From: 2, To: 5, LengthMeters: 10, Capacity: 3, TwoWay: true})
	if _, err := eng.AddVehicles(5, 2, 2); err != nil {
		t.Fatal(err)
	}

	snap := eng.Snapshot()
	if len(snap.Intersections) != 2 {
		t.Fatalf("want 2 intersections, got %d", len(snap.Intersections))
	}
	five := snap.Intersections[1]
	if five.ID != 5 || len(five.Roads) != 1 || five.Roads[0].Vehicles != 2 {
		t.Errorf("unexpected intersection 5: %+v", five)
	}

	road, err := eng.Road(2, 5)
	if err != nil {
		t.Fatal(err)
	}
	if road.Vehicles != 0 {
		t.Errorf("forward direction should be empty, got %d", road.Vehicles)
	}
}
