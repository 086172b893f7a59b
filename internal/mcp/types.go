package mcp

// --- Tool Arguments ---

type AddIntersectionArgs struct {
	ID int `json:"id" jsonschema:"Non-negative id of the intersection to create"`
}

type AddRoadArgs struct {
	ID           int     `json:"id" jsonschema:"Unique non-negative road id"`
	From         int     `json:"from" jsonschema:"Start intersection id"`
	To           int     `json:"to" jsonschema:"End intersection id"`
	LengthMeters float64 `json:"length_m" jsonschema:"Road length in meters, used as path weight"`
	Capacity     int     `json:"capacity" jsonschema:"Maximum number of vehicles on the road"`
	TwoWay       bool    `json:"two_way,omitempty" jsonschema:"Also create the reverse direction with its own vehicle counter"`
}

type TrafficArgs struct {
	From  int `json:"from" jsonschema:"Start intersection of the road"`
	To    int `json:"to" jsonschema:"End intersection of the road"`
	Count int `json:"count" jsonschema:"Number of vehicles, must be positive"`
}

type SignalArgs struct {
	Intersection int `json:"intersection" jsonschema:"Intersection carrying the signal"`
}

type SignalModeArgs struct {
	Intersection int    `json:"intersection" jsonschema:"Intersection carrying the signal"`
	Mode         string `json:"mode" jsonschema:"Either manual or automatic"`
}

type ShortestPathArgs struct {
	From int `json:"from" jsonschema:"Start intersection id"`
	To   int `json:"to" jsonschema:"Destination intersection id"`
}

// --- Tool Results ---

type AddIntersectionResult struct {
	ID int `json:"id"`
}

type RoadResult struct {
	ID           int     `json:"id"`
	From         int     `json:"from"`
	To           int     `json:"to"`
	LengthMeters float64 `json:"length_m"`
	Capacity     int     `json:"capacity"`
	Vehicles     int     `json:"vehicles"`
}

type SignalResult struct {
	Intersection int    `json:"intersection"`
	Mode         string `json:"mode"`
	State        string `json:"state"`
}

type ShortestPathResult struct {
	Path     []int   `json:"path"`
	Roads    []int   `json:"roads"`
	Distance float64 `json:"distance_m"`
}

type NetworkStatusResult struct {
	Intersections   int            `json:"intersections"`
	Roads           int            `json:"roads"`
	TotalVehicles   int            `json:"total_vehicles"`
	TotalCapacity   int            `json:"total_capacity"`
	MeanUtilization float64        `json:"mean_utilization"`
	CongestedRoads  []RoadResult   `json:"congested_roads"`
	Signals         []SignalResult `json:"signals"`
}
