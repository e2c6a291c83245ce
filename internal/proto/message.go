package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeLaunch = "launch_star"

	OutboundTypeInitialize = "initialize_star"
	OutboundTypeBroadcast  = "broadcast_star"
	OutboundTypeError      = "error"
)

// LaunchData is a wish submission. Angle and Location are optional;
// absent values mean "unknown", not an error.
type LaunchData struct {
	Text     string    `json:"text"`
	Angle    *float64  `json:"angle,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// UnmarshalJSON also accepts a bare JSON string as the payload, which
// is what older desktop clients send for launch_star.
func (d *LaunchData) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		*d = LaunchData{Text: text}
		return nil
	}

	type launchData LaunchData
	var full launchData
	if err := json.Unmarshal(b, &full); err != nil {
		return err
	}
	*d = LaunchData(full)
	return nil
}

// Location is the submitter's approximate origin.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StarEntry is one ledger row in the initialize_star snapshot.
type StarEntry struct {
	Word  string `json:"word"`
	Count int64  `json:"count"`
}

// BroadcastData is an accepted launch fanned out to every session.
type BroadcastData struct {
	Text     string    `json:"text"`
	Angle    float64   `json:"angle"`
	Location *Location `json:"location,omitempty"`
	Lumen    int64     `json:"lumen"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
