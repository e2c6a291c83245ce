package core

import "github.com/hoshizora/wishcannon-server/internal/store"

// EventKind is a notification the hub emits to sessions.
type EventKind int

const (
	// EventInitialize delivers the full ledger snapshot to a session
	// right after it connects.
	EventInitialize EventKind = iota
	// EventBroadcast announces an accepted launch to every session.
	EventBroadcast
	// EventError reports a failure to the submitting session only.
	EventError
)

// Event is sent to sessions to describe what happened in the system.
type Event struct {
	Kind  EventKind
	Stars []store.WordEntry // for EventInitialize
	Star  *Star             // for EventBroadcast
	Error *CoreError        // for EventError
}

// Star is an accepted launch enriched with the server-confirmed count.
// It lives only for the duration of one broadcast.
type Star struct {
	Text     string
	Angle    float64
	Location *Location
	Lumen    int64
}

// Location is the submitter's approximate origin. Optional; used only
// by the presentation layer.
type Location struct {
	Latitude  float64
	Longitude float64
}
