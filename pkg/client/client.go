// Package client provides a Go client for interacting with the roadgrid API.
//
// It offers a type-safe way to perform all network operations, including:
//   - Topology management (intersections and roads).
//   - Traffic updates (adding and removing vehicles).
//   - Signal control (install, toggle, automatic mode).
//   - Shortest path queries and network snapshots.
//
// The client handles HTTP communication, JSON serialization/deserialization, and
// standardized error handling.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sanonone/roadgrid/pkg/core"
)

// --- Custom Errors ---

// APIError represents an error returned by the roadgrid API (status >= 400).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// --- JSON Response Structs ---

// PathResult models the response of a shortest path query.
type PathResult struct {
	Source   int     `json:"source"`
	Target   int     `json:"target"`
	Path     []int   `json:"path"`
	Roads    []int   `json:"roads"`
	Distance float64 `json:"distance_m"`
}

type signalListResponse struct {
	Signals []core.SignalInfo `json:"signals"`
}

// --- Client ---

// Client is the Go client for interacting with roadgrid.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new roadgrid client.
func New(host string, port int) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken sets the bearer token sent with every request.
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

// jsonRequest is a helper method to execute all requests to the API.
// It handles JSON serialization, HTTP calls, and error management.
func (c *Client) jsonRequest(method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		if json.Unmarshal(respBody, &errResp) == nil {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp["error"]}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

func (c *Client) call(method, endpoint string, payload, out any) error {
	respBody, err := c.jsonRequest(method, endpoint, payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// --- Topology Methods ---

// AddIntersection creates an intersection. Creating an existing one is a no-op.
func (c *Client) AddIntersection(id int) (core.IntersectionInfo, error) {
	var info core.IntersectionInfo
	err := c.call(http.MethodPost, "/intersections", map[string]int{"id": id}, &info)
	return info, err
}

// GetIntersection returns an intersection with its outgoing roads and signal.
func (c *Client) GetIntersection(id int) (core.IntersectionInfo, error) {
	var info core.IntersectionInfo
	err := c.call(http.MethodGet, fmt.Sprintf("/intersections/%d", id), nil, &info)
	return info, err
}

// AddRoad creates a road and returns the forward direction.
func (c *Client) AddRoad(spec core.RoadSpec) (core.RoadInfo, error) {
	var info core.RoadInfo
	err := c.call(http.MethodPost, "/roads", spec, &info)
	return info, err
}

// GetRoad returns the directed road from -> to.
func (c *Client) GetRoad(from, to int) (core.RoadInfo, error) {
	var info core.RoadInfo
	err := c.call(http.MethodGet, fmt.Sprintf("/roads/%d/%d", from, to), nil, &info)
	return info, err
}

// --- Traffic Methods ---

func (c *Client) AddVehicles(from, to, count int) (core.RoadInfo, error) {
	var info core.RoadInfo
	err := c.call(http.MethodPost, "/traffic/add", map[string]int{"from": from, "to": to, "count": count}, &info)
	return info, err
}

func (c *Client) RemoveVehicles(from, to, count int) (core.RoadInfo, error) {
	var info core.RoadInfo
	err := c.call(http.MethodPost, "/traffic/remove", map[string]int{"from": from, "to": to, "count": count}, &info)
	return info, err
}

// --- Signal Methods ---

// AddSignal installs a manual, red signal on an intersection.
func (c *Client) AddSignal(intersection int) (core.SignalInfo, error) {
	var sig core.SignalInfo
	err := c.call(http.MethodPost, "/signals", map[string]int{"intersection": intersection}, &sig)
	return sig, err
}

// ListSignals returns every installed signal.
func (c *Client) ListSignals() ([]core.SignalInfo, error) {
	var resp signalListResponse
	if err := c.call(http.MethodGet, "/signals", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Signals, nil
}

func (c *Client) ToggleSignal(intersection int) (core.SignalInfo, error) {
	var sig core.SignalInfo
	err := c.call(http.MethodPost, fmt.Sprintf("/signals/%d/toggle", intersection), nil, &sig)
	return sig, err
}

func (c *Client) StartAutomaticControl(intersection int) (core.SignalInfo, error) {
	var sig core.SignalInfo
	err := c.call(http.MethodPost, fmt.Sprintf("/signals/%d/automatic", intersection), nil, &sig)
	return sig, err
}

func (c *Client) StopAutomaticControl(intersection int) (core.SignalInfo, error) {
	var sig core.SignalInfo
	err := c.call(http.MethodDelete, fmt.Sprintf("/signals/%d/automatic", intersection), nil, &sig)
	return sig, err
}

// --- Query Methods ---

// ShortestPath finds the shortest route between two intersections.
func (c *Client) ShortestPath(from, to int) (*PathResult, error) {
	q := url.Values{}
	q.Set("from", strconv.Itoa(from))
	q.Set("to", strconv.Itoa(to))

	var res PathResult
	if err := c.call(http.MethodGet, "/path?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Snapshot() (core.Snapshot, error) {
	var snap core.Snapshot
	err := c.call(http.MethodGet, "/network", nil, &snap)
	return snap, err
}

func (c *Client) Stats() (core.Stats, error) {
	var st core.Stats
	err := c.call(http.MethodGet, "/network/stats", nil, &st)
	return st, err
}
