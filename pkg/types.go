package pkg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Wire types exchanged with the retrieval backend

// CameraID identifies a camera feed within a session. The backend sends it
// as a JSON number; older builds sent a string. Both decode to the same value.
type CameraID string

// UnmarshalJSON accepts a string, a number or null.
func (c *CameraID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode camera_id: %w", err)
		}
		*c = CameraID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode camera_id %s: %w", data, err)
	}
	*c = CameraID(n.String())
	return nil
}

func (c CameraID) String() string { return string(c) }

// SearchResult is a single matched clip
type SearchResult struct {
	ID           string   `json:"id,omitempty"`
	SessionID    string   `json:"session_id"`
	CameraID     CameraID `json:"camera_id"`
	VideoURL     string   `json:"video_url"`
	VideoSummary string   `json:"video_summary,omitempty"`
	Score        *float64 `json:"score,omitempty"`
}

// SearchResponse is the canonical search payload. Endpoints that still
// answer with a bare array are decoded into the same shape.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// MeanStd is a mean with its standard deviation; either may be missing
type MeanStd struct {
	Mean *float64 `json:"mean,omitempty"`
	Std  *float64 `json:"std,omitempty"`
}

// Latency holds the time since the previous action and observation events
type Latency struct {
	ActionPrev      *MeanStd `json:"action_prev,omitempty"`
	ObservationPrev *MeanStd `json:"observation_prev,omitempty"`
}

// Command holds command execution statistics
type Command struct {
	SuccessRate *float64 `json:"success_rate,omitempty"`
}

// StatsBlob groups every per-session metric. Any field may be absent.
type StatsBlob struct {
	Latency           *Latency `json:"latency,omitempty"`
	Command           *Command `json:"command,omitempty"`
	TrackingError     *MeanStd `json:"tracking_error,omitempty"`
	JointVelocityDiff *MeanStd `json:"joint_velocity_diff,omitempty"`
}

// StatsResponse is the payload of the stats endpoint
type StatsResponse struct {
	SessionID string     `json:"session_id"`
	Found     bool       `json:"found"`
	Stats     *StatsBlob `json:"stats"`
}

// HasStats reports whether the response carries a stats blob worth drawing
func (r *StatsResponse) HasStats() bool {
	return r != nil && r.Found && r.Stats != nil
}

// Float returns a pointer to v, handy for building optional fields
func Float(v float64) *float64 {
	return &v
}
