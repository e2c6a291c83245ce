package core

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hoshizora/wishcannon-server/internal/store"
)

// Hub coordinates all live sessions. A single run loop owns the session
// set and mediates every ledger access, so increments are serialized on
// top of the store's own per-word atomicity.
type Hub struct {
	store store.WordStore
	log   *zerolog.Logger

	register   chan *Session
	unregister chan *Session
	launches   chan launchRequest

	sessions map[*Session]struct{}
	done     chan struct{}
}

type launchRequest struct {
	session *Session
	launch  Launch
}

// NewHub creates a hub backed by the given word store.
func NewHub(st store.WordStore, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		store:      st,
		log:        logger,
		register:   make(chan *Session),
		unregister: make(chan *Session),
		launches:   make(chan launchRequest),
		sessions:   make(map[*Session]struct{}),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and launches until ctx is cancelled.
// On shutdown all sessions are dropped; nothing about them persists.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for s := range h.sessions {
			delete(h.sessions, s)
			close(s.Events)
		}
		close(h.done)
	}()

	for {
		select {
		case s := <-h.register:
			h.handleRegister(ctx, s)
		case s := <-h.unregister:
			h.handleUnregister(s)
		case req := <-h.launches:
			h.handleLaunch(ctx, req)
		case <-ctx.Done():
			return
		}
	}
}

// Register adds a session and sends it, and only it, the full ledger
// snapshot. This is the sole way a late joiner learns prior state.
func (h *Hub) Register(s *Session) {
	select {
	case h.register <- s:
	case <-h.done:
	}
}

// Unregister removes a session. No other side effects; the ledger is
// independent of any session's lifetime.
func (h *Hub) Unregister(s *Session) {
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}

// Launch submits a wish on behalf of a session.
func (h *Hub) Launch(s *Session, l Launch) {
	select {
	case h.launches <- launchRequest{session: s, launch: l}:
	case <-h.done:
	}
}

func (h *Hub) handleRegister(ctx context.Context, s *Session) {
	h.sessions[s] = struct{}{}

	entries, err := h.store.Snapshot(ctx)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", s.ID).Msg("snapshot failed")
		h.send(s, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodePersistence, "failed to load stars"),
		})
		return
	}

	h.send(s, &Event{Kind: EventInitialize, Stars: entries})
	h.log.Debug().Str("session_id", s.ID).Int("stars", len(entries)).Msg("session initialized")
}

func (h *Hub) handleUnregister(s *Session) {
	if _, ok := h.sessions[s]; !ok {
		return
	}
	delete(h.sessions, s)
	close(s.Events)
}

func (h *Hub) handleLaunch(ctx context.Context, req launchRequest) {
	// Trim surrounding whitespace, preserve case. Empty submissions are
	// dropped without a client-visible error; clients validate too, but
	// the server cannot trust them.
	text := strings.TrimSpace(req.launch.Text)
	if text == "" {
		h.log.Debug().Str("session_id", req.session.ID).Msg("dropped empty launch")
		return
	}

	lumen, err := h.store.Increment(ctx, text)
	if err != nil {
		// Report to the submitter only. Never broadcast a count that was
		// not durably recorded.
		h.log.Error().Err(err).Str("session_id", req.session.ID).Str("word", text).Msg("increment failed")
		h.send(req.session, &Event{
			Kind:  EventError,
			Error: coreError(ErrCodePersistence, "failed to record wish"),
		})
		return
	}

	star := &Star{
		Text:     text,
		Angle:    clampAngle(req.launch.Angle),
		Location: req.launch.Location,
		Lumen:    lumen,
	}

	// Fan out to every session, the submitter included, so everyone
	// renders from the same server-confirmed count.
	event := &Event{Kind: EventBroadcast, Star: star}
	for s := range h.sessions {
		h.send(s, event)
	}

	h.log.Info().Str("word", text).Int64("lumen", lumen).Int("sessions", len(h.sessions)).Msg("star broadcast")
}

// send delivers an event to a registered session without blocking.
// Sessions that are gone or too slow simply miss the event.
func (h *Hub) send(s *Session, event *Event) {
	if _, ok := h.sessions[s]; !ok {
		return
	}
	select {
	case s.Events <- event:
	default:
		// Drop if slow consumer.
	}
}

func clampAngle(angle float64) float64 {
	switch {
	case angle < 0:
		return 0
	case angle > 90:
		return 90
	default:
		return angle
	}
}
