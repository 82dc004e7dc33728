package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"

	"github.com/dd0wney/graphscape/pkg/layout"
)

// Operation identifies what a request asks the worker to compute
type Operation string

const (
	OpLayout         Operation = "layout"
	OpMetrics        Operation = "metrics"
	OpClusters       Operation = "clusters"
	OpShortestPath   Operation = "shortest_path"
	OpConnectedNodes Operation = "connected_nodes"
	OpStrengths      Operation = "strengths"
)

// Request is the envelope sent to a worker. The correlation ID ties
// the eventual response back to the caller; payloads are opaque JSON
// interpreted by the operation's handler.
type Request struct {
	ID      string          `json:"id"`
	Op      Operation       `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the envelope a worker sends back. Exactly one of
// Payload, Error, Fault, or Progress is meaningful:
//   - Progress non-nil: an interim milestone, the request stays pending
//   - Fault true: the worker crashed; every pending request fails
//   - Error non-empty: this request failed, others are unaffected
//   - otherwise: Payload is the result
type Response struct {
	ID       string           `json:"id"`
	Payload  json.RawMessage  `json:"payload,omitempty"`
	Error    string           `json:"error,omitempty"`
	Fault    bool             `json:"fault,omitempty"`
	Progress *layout.Progress `json:"progress,omitempty"`
}

// Frames are JSON envelopes compressed with snappy. Layout payloads
// carry full node/edge snapshots, so the compression pays for itself
// on anything beyond trivial graphs.

func encodeFrame(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return snappy.Encode(nil, raw), nil
}

func decodeFrame(data []byte, v any) error {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return fmt.Errorf("decompressing frame: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding frame: %w", err)
	}
	return nil
}
