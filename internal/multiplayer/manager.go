package multiplayer

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacsnake/internal/core"
	"github.com/vovakirdan/pacsnake/internal/game"
)

// ManagerConfig holds configuration for the manager.
type ManagerConfig struct {
	MaxLobbies int
	Rules      game.Rules
	Scheduler  game.Scheduler // nil uses game.RealScheduler
	Logger     *log.Logger    // nil uses log.Default()
}

// DefaultManagerConfig returns four lobbies with the default rules.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxLobbies: 4,
		Rules:      game.DefaultRules(),
	}
}

// Manager is the lobby directory plus the inbound surface transports call.
// Transports construct one and share it; there is no package-level instance.
//
// Lock order is Manager.mu before any lobby's own mutex. Lobby events are
// routed through fanOut, which never takes Manager.mu, so a lobby may
// publish while the manager is in the middle of a call into it.
type Manager struct {
	cfg      ManagerConfig
	log      *log.Logger
	sessions *SessionRegistry

	mu           sync.RWMutex
	lobbies      map[string]*game.Lobby
	sessionLobby map[SessionID]string // sessionID -> lobby name
	names        map[SessionID]string // sessionID -> display name

	listDirty chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

// NewManager creates a manager. sessions may be nil.
func NewManager(cfg ManagerConfig, sessions *SessionRegistry) (*Manager, error) {
	if cfg.MaxLobbies < 1 {
		return nil, fmt.Errorf("multiplayer: max lobbies must be positive, got %d", cfg.MaxLobbies)
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = NewSessionRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	cfg.Logger = logger

	return &Manager{
		cfg:          cfg,
		log:          logger,
		sessions:     sessions,
		lobbies:      make(map[string]*game.Lobby),
		sessionLobby: make(map[SessionID]string),
		names:        make(map[SessionID]string),
		listDirty:    make(chan struct{}, 1),
		done:         make(chan struct{}),
	}, nil
}

// Sessions returns the session registry.
func (m *Manager) Sessions() *SessionRegistry {
	return m.sessions
}

// Rules returns the rules new lobbies are created with.
func (m *Manager) Rules() game.Rules {
	return m.cfg.Rules
}

// Start begins pushing lobby list updates to every session.
func (m *Manager) Start() {
	go m.broadcastLoop()
}

// Stop shuts the manager down and closes every lobby.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
	m.Reset()
}

// Add registers a new idle lobby. A failing Add leaves the directory as it was.
func (m *Manager) Add(name string) (*game.Lobby, error) {
	name = strings.TrimSpace(name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.lobbies) >= m.cfg.MaxLobbies {
		return nil, fmt.Errorf("create lobby %q: the maximum number of lobbies are already open: %w", name, game.ErrCapacityExceeded)
	}
	if _, exists := m.lobbies[name]; exists {
		return nil, fmt.Errorf("create lobby %q: %w", name, game.ErrNameConflict)
	}
	if name == "" {
		return nil, fmt.Errorf("create lobby: %w", game.ErrInvalidName)
	}

	l, err := game.NewLobby(game.LobbyConfig{
		Name:      name,
		Rules:     m.cfg.Rules,
		Sink:      game.SinkFunc(m.fanOut),
		Scheduler: m.cfg.Scheduler,
		Logger:    m.log,
	})
	if err != nil {
		return nil, fmt.Errorf("create lobby %q: %w", name, err)
	}
	m.lobbies[name] = l
	m.log.Info("lobby created", "lobby", name, "lobbies", len(m.lobbies))
	m.notifyListChanged()
	return l, nil
}

// Get looks a lobby up by name.
func (m *Manager) Get(name string) (*game.Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lobbies[name]
	if !ok {
		return nil, fmt.Errorf("lobby %q: %w", name, game.ErrNotFound)
	}
	return l, nil
}

// Delete removes an empty, idle lobby and stops its timers.
func (m *Manager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lobbies[name]
	if !ok {
		return fmt.Errorf("delete lobby %q: %w", name, game.ErrNotFound)
	}
	if l.PlayerCount() > 0 {
		return fmt.Errorf("delete lobby %q: %w", name, game.ErrNotEmpty)
	}
	if !l.State().Idle() {
		return fmt.Errorf("delete lobby %q: %w", name, game.ErrGameInProgress)
	}

	delete(m.lobbies, name)
	l.Close()
	m.log.Info("lobby closed", "lobby", name, "lobbies", len(m.lobbies))
	m.notifyListChanged()
	return nil
}

// ListSummaries returns every lobby's list entry, sorted by name.
func (m *Manager) ListSummaries() []game.Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]game.Summary, 0, len(m.lobbies))
	for _, l := range m.lobbies {
		out = append(out, l.Summary())
	}
	slices.SortFunc(out, func(a, b game.Summary) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// LobbyCount returns the number of open lobbies.
func (m *Manager) LobbyCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lobbies)
}

// Reset closes and forgets every lobby. Sessions stay connected.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, l := range m.lobbies {
		l.Close()
		delete(m.lobbies, name)
	}
	clear(m.sessionLobby)
}

// CreateLobby creates an empty lobby.
func (m *Manager) CreateLobby(name string) error {
	_, err := m.Add(name)
	return err
}

// CloseLobby deletes an empty, idle lobby.
func (m *Manager) CloseLobby(name string) error {
	return m.Delete(name)
}

// JoinLobby puts a player into a lobby, leaving their current lobby first.
// A non-nil handle is (re)bound to the player's id. An empty displayName
// keeps whatever name the session already has.
func (m *Manager) JoinLobby(lobbyName string, id SessionID, displayName string, handle SessionHandle) error {
	if handle != nil {
		if prev := m.sessions.Register(handle); prev != nil {
			prev.Close()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lobbies[lobbyName]
	if !ok {
		return fmt.Errorf("join %q: %w", lobbyName, game.ErrNotFound)
	}
	if cur, in := m.sessionLobby[id]; in && cur == lobbyName {
		return nil
	}

	// Check the target before giving up the current lobby. Only the manager
	// adds players, and timers only ever move a lobby back to idle, so the
	// check still holds when AddPlayer runs.
	sum := l.Summary()
	if !sum.State.Idle() {
		return fmt.Errorf("join %q: %w", lobbyName, game.ErrGameInProgress)
	}
	if sum.PlayerCount >= sum.MaxPlayers {
		return fmt.Errorf("join %q: lobby is full: %w", lobbyName, game.ErrCapacityExceeded)
	}

	if _, in := m.sessionLobby[id]; in {
		if _, err := m.leaveLocked(id); err != nil {
			return err
		}
	}

	name := strings.TrimSpace(displayName)
	if name != "" {
		m.names[id] = name
	}
	if err := l.AddPlayer(id, m.nameLocked(id)); err != nil {
		return err
	}
	m.sessionLobby[id] = lobbyName
	m.log.Info("player joined lobby", "player", m.nameLocked(id), "lobby", lobbyName)
	m.notifyListChanged()
	return nil
}

// LeaveLobby takes a player out of their lobby and returns its name.
func (m *Manager) LeaveLobby(id SessionID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaveLocked(id)
}

func (m *Manager) leaveLocked(id SessionID) (string, error) {
	name, in := m.sessionLobby[id]
	if !in {
		return "", fmt.Errorf("leave: %w", game.ErrNotInLobby)
	}
	delete(m.sessionLobby, id)

	if l, ok := m.lobbies[name]; ok {
		if err := l.RemovePlayer(id); err != nil && !errors.Is(err, game.ErrNotFound) {
			return name, err
		}
	}
	m.log.Info("player left lobby", "player", m.nameLocked(id), "lobby", name)
	m.notifyListChanged()
	return name, nil
}

// SetReady sets the player's ready flag.
func (m *Manager) SetReady(id SessionID, ready bool) error {
	l, err := m.lobbyOf(id)
	if err != nil {
		return err
	}
	return l.SetReady(id, ready)
}

// ToggleReady flips the player's ready flag.
func (m *Manager) ToggleReady(id SessionID) (bool, error) {
	l, err := m.lobbyOf(id)
	if err != nil {
		return false, err
	}
	return l.ToggleReady(id)
}

// SetDirection steers the player's snake.
func (m *Manager) SetDirection(id SessionID, dir core.Direction) error {
	l, err := m.lobbyOf(id)
	if err != nil {
		return err
	}
	return l.SetDirection(id, dir)
}

// ChangeSpeed cycles the speed of an idle lobby.
func (m *Manager) ChangeSpeed(lobbyName string) (game.Speed, error) {
	l, err := m.Get(lobbyName)
	if err != nil {
		return game.Speed{}, err
	}
	return l.ChangeSpeed()
}

// RenamePlayer sets the display name of a session, in its lobby too.
func (m *Manager) RenamePlayer(id SessionID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rename: %w", game.ErrInvalidName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.names[id] = name
	if lobbyName, in := m.sessionLobby[id]; in {
		if l, ok := m.lobbies[lobbyName]; ok {
			return l.Rename(id, name)
		}
	}
	return nil
}

// LobbyOf returns the lobby a player is in.
func (m *Manager) LobbyOf(id SessionID) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.sessionLobby[id]
	return name, ok
}

// Name returns the display name of a session.
func (m *Manager) Name(id SessionID) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nameLocked(id)
}

func (m *Manager) nameLocked(id SessionID) string {
	if n, ok := m.names[id]; ok {
		return n
	}
	return DefaultName(id)
}

func (m *Manager) lobbyOf(id SessionID) (*game.Lobby, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, in := m.sessionLobby[id]
	if !in {
		return nil, game.ErrNotInLobby
	}
	l, ok := m.lobbies[name]
	if !ok {
		return nil, fmt.Errorf("lobby %q: %w", name, game.ErrNotFound)
	}
	return l, nil
}

// Connect binds a session handle to its id and greets it with its id and
// the lobby list. If the id was already bound, the old handle is closed.
// The manager disconnects the session when its handle reports Done.
func (m *Manager) Connect(h SessionHandle) {
	if prev := m.sessions.Register(h); prev != nil {
		m.log.Info("session rebound", "session", h.ID())
		prev.Close()
	} else {
		m.log.Debug("session connected", "session", h.ID(), "sessions", m.sessions.Count())
	}

	h.Send(SessionOpenedEvent{ID: h.ID(), Name: m.Name(h.ID())})
	h.Send(LobbyListEvent{Lobbies: m.ListSummaries()})
	go m.watch(h)
}

// Disconnect removes a session that ended, taking it out of its lobby. It
// does nothing if the id has since been bound to a newer handle.
func (m *Manager) Disconnect(id SessionID, h SessionHandle) {
	if !m.sessions.Unregister(id, h) {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.leaveLocked(id); err != nil && !errors.Is(err, game.ErrNotInLobby) {
		m.log.Warn("leave on disconnect failed", "session", id, "err", err)
	}
	delete(m.names, id)
	m.log.Debug("session disconnected", "session", id)
}

func (m *Manager) watch(h SessionHandle) {
	select {
	case <-h.Done():
		m.Disconnect(h.ID(), h)
	case <-m.done:
	}
}

// Dispatch runs one inbound command for a session and sends the session
// its confirmation. Errors are returned for the transport to relay.
func (m *Manager) Dispatch(id SessionID, cmd Command) error {
	switch c := cmd.(type) {
	case CreateLobbyCmd:
		name := strings.TrimSpace(c.Name)
		if err := m.CreateLobby(name); err != nil {
			return err
		}
		m.sessions.SendTo(id, MessageEvent{Message: fmt.Sprintf("New lobby was created: %s", name)})

	case JoinLobbyCmd:
		if err := m.JoinLobby(c.Lobby, id, "", nil); err != nil {
			return err
		}
		m.sessions.SendTo(id, JoinedLobbyEvent{Lobby: c.Lobby})

	case LeaveLobbyCmd:
		name, err := m.LeaveLobby(id)
		if err != nil {
			return err
		}
		m.sessions.SendTo(id, LeftLobbyEvent{Lobby: name})

	case SetReadyCmd:
		return m.SetReady(id, c.Ready)

	case ToggleReadyCmd:
		_, err := m.ToggleReady(id)
		return err

	case SetDirectionCmd:
		return m.SetDirection(id, c.Direction)

	case ChangeSpeedCmd:
		name := c.Lobby
		if name == "" {
			var ok bool
			if name, ok = m.LobbyOf(id); !ok {
				return fmt.Errorf("change speed: %w", game.ErrNotInLobby)
			}
		}
		_, err := m.ChangeSpeed(name)
		return err

	case CloseLobbyCmd:
		if err := m.CloseLobby(c.Name); err != nil {
			return err
		}
		m.sessions.SendTo(id, MessageEvent{Message: fmt.Sprintf("Lobby closed: %s", c.Name)})

	case RenameCmd:
		if err := m.RenamePlayer(id, c.Name); err != nil {
			return err
		}
		m.sessions.SendTo(id, NameUpdatedEvent{Name: m.Name(id)})

	case LobbyListCmd:
		m.sessions.SendTo(id, LobbyListEvent{Lobbies: m.ListSummaries()})

	case LobbyHeaderCmd:
		name, _ := m.LobbyOf(id)
		m.sessions.SendTo(id, LobbyHeaderEvent{Lobby: name})

	default:
		return fmt.Errorf("multiplayer: unknown command %T", cmd)
	}
	return nil
}

// fanOut routes a lobby event to its recipients. It must not take m.mu.
func (m *Manager) fanOut(evt game.Event) {
	out := GameEvent{Kind: evt.Kind, Lobby: evt.Lobby, Snapshot: evt.Snapshot}
	for _, id := range evt.Recipients {
		m.sessions.SendTo(id, out)
	}

	switch evt.Kind {
	case game.EventStateUpdated, game.EventRoundCountdownUpdated:
		// Per-tick traffic does not change the lobby list.
	default:
		m.notifyListChanged()
	}
}

func (m *Manager) notifyListChanged() {
	select {
	case m.listDirty <- struct{}{}:
	default:
	}
}

// BroadcastLobbyList sends the lobby list to every session.
func (m *Manager) BroadcastLobbyList() {
	m.sessions.Broadcast(LobbyListEvent{Lobbies: m.ListSummaries()})
}

// broadcastLoop coalesces list changes: any number of notifications while
// a broadcast is running result in one more broadcast.
func (m *Manager) broadcastLoop() {
	for {
		select {
		case <-m.listDirty:
			m.BroadcastLobbyList()
		case <-m.done:
			return
		}
	}
}
