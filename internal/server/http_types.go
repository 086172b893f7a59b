package server

import "github.com/sanonone/roadgrid/pkg/core"

// IntersectionCreateRequest defines the body for intersection creation.
type IntersectionCreateRequest struct {
	ID *int `json:"id"`
}

// RoadCreateRequest defines the body for road creation.
type RoadCreateRequest = core.RoadSpec

// TrafficRequest defines the body for adding or removing vehicles.
type TrafficRequest struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Count int `json:"count"`
}

// SignalCreateRequest defines the body for signal installation.
type SignalCreateRequest struct {
	Intersection *int `json:"intersection"`
}

// SignalListResponse wraps the list of installed signals.
type SignalListResponse struct {
	Signals []core.SignalInfo `json:"signals"`
}
