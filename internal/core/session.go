package core

// Session is one live client connection as seen by the core layer.
// It exists from connect to disconnect and holds no ledger state.
type Session struct {
	ID     string
	Events chan *Event
}

// NewSession constructs a session with an initialized event channel.
func NewSession(id string) *Session {
	return &Session{
		ID:     id,
		Events: make(chan *Event, 8),
	}
}
