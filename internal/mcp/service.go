package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/roadgrid/pkg/core"
	"github.com/sanonone/roadgrid/pkg/engine"
	"github.com/sanonone/roadgrid/pkg/signal"
)

type Service struct {
	engine *engine.Engine
}

func NewService(eng *engine.Engine) *Service {
	return &Service{engine: eng}
}

// --- Tool Handlers ---

func (s *Service) AddIntersection(ctx context.Context, req *mcp.CallToolRequest, args AddIntersectionArgs) (*mcp.CallToolResult, AddIntersectionResult, error) {
	if err := s.engine.AddIntersection(args.ID); err != nil {
		return nil, AddIntersectionResult{}, err
	}
	return nil, AddIntersectionResult{ID: args.ID}, nil
}

func (s *Service) AddRoad(ctx context.Context, req *mcp.CallToolRequest, args AddRoadArgs) (*mcp.CallToolResult, RoadResult, error) {
	spec := core.RoadSpec{
		ID:           args.ID,
		From:         args.From,
		To:           args.To,
		LengthMeters: args.LengthMeters,
		Capacity:     args.Capacity,
		TwoWay:       args.TwoWay,
	}
	if err := s.engine.AddRoad(spec); err != nil {
		return nil, RoadResult{}, err
	}
	info, err := s.engine.Road(args.From, args.To)
	if err != nil {
		return nil, RoadResult{}, err
	}
	return nil, roadResult(info), nil
}

func (s *Service) AddVehicles(ctx context.Context, req *mcp.CallToolRequest, args TrafficArgs) (*mcp.CallToolResult, RoadResult, error) {
	info, err := s.engine.AddVehicles(args.From, args.To, args.Count)
	if err != nil {
		return nil, RoadResult{}, err
	}
	return nil, roadResult(info), nil
}

func (s *Service) RemoveVehicles(ctx context.Context, req *mcp.CallToolRequest, args TrafficArgs) (*mcp.CallToolResult, RoadResult, error) {
	info, err := s.engine.RemoveVehicles(args.From, args.To, args.Count)
	if err != nil {
		return nil, RoadResult{}, err
	}
	return nil, roadResult(info), nil
}

func (s *Service) AddSignal(ctx context.Context, req *mcp.CallToolRequest, args SignalArgs) (*mcp.CallToolResult, SignalResult, error) {
	sig, err := s.engine.AddSignal(args.Intersection)
	if err != nil {
		return nil, SignalResult{}, err
	}
	return nil, signalResult(sig), nil
}

func (s *Service) ToggleSignal(ctx context.Context, req *mcp.CallToolRequest, args SignalArgs) (*mcp.CallToolResult, SignalResult, error) {
	sig, err := s.engine.ToggleSignal(args.Intersection)
	if err != nil {
		return nil, SignalResult{}, err
	}
	return nil, signalResult(sig), nil
}

func (s *Service) SetSignalMode(ctx context.Context, req *mcp.CallToolRequest, args SignalModeArgs) (*mcp.CallToolResult, SignalResult, error) {
	var mode core.SignalMode
	if err := mode.UnmarshalText([]byte(args.Mode)); err != nil {
		return nil, SignalResult{}, err
	}

	var (
		sig core.SignalInfo
		err error
	)
	switch mode {
	case core.ModeAutomatic:
		sig, err = s.engine.StartAutomaticControl(args.Intersection)
	case core.ModeManual:
		sig, err = s.engine.StopAutomaticControl(args.Intersection)
	default:
		return nil, SignalResult{}, fmt.Errorf("%w: mode must be manual or automatic", core.ErrValidation)
	}
	if err != nil {
		return nil, SignalResult{}, err
	}
	return nil, signalResult(sig), nil
}

func (s *Service) ShortestPath(ctx context.Context, req *mcp.CallToolRequest, args ShortestPathArgs) (*mcp.CallToolResult, ShortestPathResult, error) {
	res, err := s.engine.ShortestPath(args.From, args.To)
	if err != nil {
		return nil, ShortestPathResult{}, err
	}
	return nil, ShortestPathResult{Path: res.Path, Roads: res.Roads, Distance: res.Distance}, nil
}

func (s *Service) NetworkStatus(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, NetworkStatusResult, error) {
	st := s.engine.Stats()
	out := NetworkStatusResult{
		Intersections:   st.Intersections,
		Roads:           st.Roads,
		TotalVehicles:   st.TotalVehicles,
		TotalCapacity:   st.TotalCapacity,
		MeanUtilization: st.MeanUtilization,
		CongestedRoads:  []RoadResult{},
		Signals:         []SignalResult{},
	}
	for _, r := range s.engine.Net.Roads() {
		if r.Utilization() > signal.GreenThreshold {
			out.CongestedRoads = append(out.CongestedRoads, roadResult(r))
		}
	}
	for _, sig := range s.engine.SignalList() {
		out.Signals = append(out.Signals, signalResult(sig))
	}
	return nil, out, nil
}

func roadResult(r core.RoadInfo) RoadResult {
	return RoadResult{
		ID:           r.ID,
		From:         r.From,
		To:           r.To,
		LengthMeters: r.LengthMeters,
		Capacity:     r.Capacity,
		Vehicles:     r.Vehicles,
	}
}

func signalResult(sig core.SignalInfo) SignalResult {
	return SignalResult{
		Intersection: sig.Intersection,
		Mode:         sig.Mode.String(),
		State:        sig.State.String(),
	}
}
