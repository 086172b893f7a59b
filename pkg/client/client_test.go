package client

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/sanonone/roadgrid/internal/server"
	"github.com/sanonone/roadgrid/pkg/core"
	"github.com/sanonone/roadgrid/pkg/engine"
)

func newTestClient(t *testing.T, token string) *Client {
	t.Helper()
	eng, err := engine.Open(engine.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { eng.Close() })

	ts := httptest.NewServer(server.NewServer(eng, server.Options{AuthToken: token}).Handler())
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}
	return New(host, port)
}

func TestClientEndToEnd(t *testing.T) {
	c := newTestClient(t, "s3cret").WithToken("s3cret")

	t.Run("A - Topology", func(t *testing.T) {
		if _, err := c.AddIntersection(0); err != nil {
			t.Fatalf("AddIntersection failed: %v", err)
		}
		roads := []core.RoadSpec{
			{ID: 1, From: 0, To: 1, LengthMeters: 5, Capacity: 4, TwoWay: true},
			{ID: 2, From: 1, To: 2, LengthMeters: 5, Capacity: 4},
		}
		for _, r := range roads {
			if _, err := c.AddRoad(r); err != nil {
				t.Fatalf("AddRoad %d failed: %v", r.ID, err)
			}
		}
		back, err := c.GetRoad(1, 0)
		if err != nil {
			t.Fatalf("GetRoad failed: %v", err)
		}
		if back.ID != 1 || !back.TwoWay {
			t.Errorf("unexpected reverse road %+v", back)
		}
		in, err := c.GetIntersection(1)
		if err != nil {
			t.Fatal(err)
		}
		if len(in.Roads) != 2 {
			t.Errorf("intersection 1 should have 2 outgoing roads, got %d", len(in.Roads))
		}
	})

	t.Run("B - Traffic", func(t *testing.T) {
		info, err := c.AddVehicles(0, 1, 3)
		if err != nil {
			t.Fatal(err)
		}
		if info.Vehicles != 3 {
			t.Errorf("want 3 vehicles, got %d", info.Vehicles)
		}
		_, err = c.AddVehicles(0, 1, 2)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("want 422 APIError over capacity, got %v", err)
		}
		if _, err := c.RemoveVehicles(0, 1, 3); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("C - Signals", func(t *testing.T) {
		if _, err := c.AddSignal(1); err != nil {
			t.Fatal(err)
		}
		sig, err := c.ToggleSignal(1)
		if err != nil || sig.State != core.Green {
			t.Errorf("toggle: %+v, %v", sig, err)
		}
		sig, err = c.StartAutomaticControl(1)
		if err != nil || sig.Mode != core.ModeAutomatic {
			t.Errorf("start automatic: %+v, %v", sig, err)
		}
		sig, err = c.StopAutomaticControl(1)
		if err != nil || sig.Mode != core.ModeManual {
			t.Errorf("stop automatic: %+v, %v", sig, err)
		}
		list, err := c.ListSignals()
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || list[0].Intersection != 1 {
			t.Errorf("unexpected signal list %+v", list)
		}
	})

	t.Run("D - Queries", func(t *testing.T) {
		res, err := c.ShortestPath(0, 2)
		if err != nil {
			t.Fatal(err)
		}
		if res.Distance != 10 || len(res.Path) != 3 {
			t.Errorf("unexpected path %+v", res)
		}
		_, err = c.ShortestPath(2, 0)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
			t.Errorf("want 404 for unreachable target, got %v", err)
		}

		snap, err := c.Snapshot()
		if err != nil {
			t.Fatal(err)
		}
		if len(snap.Intersections) != 3 {
			t.Errorf("want 3 intersections in snapshot, got %d", len(snap.Intersections))
		}
		st, err := c.Stats()
		if err != nil {
			t.Fatal(err)
		}
		if st.DirectedEdges != 3 || st.Signals != 1 {
			t.Errorf("unexpected stats %+v", st)
		}
	})
}

func TestClientWithoutToken(t *testing.T) {
	c := newTestClient(t, "s3cret")

	_, err := c.Stats()
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("want 401 without token, got %v", err)
	}
}
