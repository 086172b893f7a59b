package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sanonone/roadgrid/pkg/engine"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

func NewMCPServer(eng *engine.Engine) *mcp.Server {
	service := NewService(eng)

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "roadgrid",
		Version: Version,
	}, nil)

	// Tool schemas are inferred from the argument structs.

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_intersection",
		Description: "Create an intersection (graph node). Creating an existing id is a no-op.",
	}, service.AddIntersection)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_road",
		Description: "Add a directed road between two intersections, or a two-way road made of two independent directions.",
	}, service.AddRoad)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_vehicles",
		Description: "Put vehicles on a directed road. Fails if the road capacity would be exceeded.",
	}, service.AddVehicles)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "remove_vehicles",
		Description: "Take vehicles off a directed road. Fails if fewer vehicles are present.",
	}, service.RemoveVehicles)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "add_signal",
		Description: "Install a traffic signal on an intersection. It starts in manual mode showing red.",
	}, service.AddSignal)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "toggle_signal",
		Description: "Flip a manually controlled signal between red and green.",
	}, service.ToggleSignal)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "set_signal_mode",
		Description: "Switch a signal between manual control and automatic congestion-based control.",
	}, service.SetSignalMode)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "shortest_path",
		Description: "Find the shortest route between two intersections by road length.",
	}, service.ShortestPath)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "network_status",
		Description: "Summarise occupancy, congested roads and signal states across the network.",
	}, service.NetworkStatus)

	return s
}
