package multiplayer

import (
	"sync"
	"sync/atomic"
)

// SessionHandle is the transport-neutral interface for communicating with a session.
// It allows the manager and lobbies to send events without depending on
// websockets or Bubble Tea.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send sends an event to the session asynchronously.
	// Must be non-blocking; implementations should use buffered channels.
	Send(evt SessionEvent)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}

	// Close ends the session. Safe to call multiple times.
	Close()
}

// ChannelSession is a SessionHandle implementation using Go channels.
// Used by the TUI layer and the websocket write pump.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once
	dropped  atomic.Uint64
}

// NewChannelSession creates a new channel-based session handle.
// eventBufferSize controls how many events can be buffered before dropping.
func NewChannelSession(id SessionID, eventBufferSize int) *ChannelSession {
	if eventBufferSize < 1 {
		eventBufferSize = 64
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues an event for the session. A slow reader loses its oldest
// event rather than stalling the lobby that produced the new one.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
		return
	default:
	}

	select {
	case <-s.events:
		s.dropped.Add(1)
	default:
	}
	select {
	case s.events <- evt:
	default:
		s.dropped.Add(1)
	}
}

// Events returns the channel to receive events from.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Dropped returns how many events were discarded because the buffer was full.
func (s *ChannelSession) Dropped() uint64 {
	return s.dropped.Load()
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry is the authoritative table of connected sessions. The
// session id is the key; the handle is an attribute that a reconnecting
// client can replace.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register binds a handle to its id and returns the handle it replaced, if
// any, so the caller can close the stale connection.
func (r *SessionRegistry) Register(session SessionHandle) (previous SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	previous = r.sessions[session.ID()]
	if previous == session {
		previous = nil
	}
	r.sessions[session.ID()] = session
	return previous
}

// Unregister removes id only while it is still bound to handle. A stale
// connection that shuts down after its id was rebound leaves the new binding
// alone. It reports whether anything was removed.
func (r *SessionRegistry) Unregister(id SessionID, handle SessionHandle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[id]; !ok || cur != handle {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// SendTo delivers evt to id if it is connected.
func (r *SessionRegistry) SendTo(id SessionID, evt SessionEvent) bool {
	s, ok := r.Get(id)
	if ok {
		s.Send(evt)
	}
	return ok
}

// Broadcast delivers evt to every connected session.
func (r *SessionRegistry) Broadcast(evt SessionEvent) {
	r.mu.RLock()
	targets := make([]SessionHandle, 0, len(r.sessions))
	for _, s := range r.sessions {
		targets = append(targets, s)
	}
	r.mu.RUnlock()

	for _, s := range targets {
		s.Send(evt)
	}
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
