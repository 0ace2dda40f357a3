package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacsnake/internal/core"
)

// LobbyConfig holds the dependencies of a lobby.
type LobbyConfig struct {
	Name      string
	Rules     Rules
	Sink      EventSink   // nil discards events
	Scheduler Scheduler   // nil uses RealScheduler
	Logger    *log.Logger // nil uses log.Default()
}

// Lobby owns one independent game: its roster, snakes, food, timers and
// round/game state machine.
//
// Every exported method and every timer callback runs under mu, so a tick
// never interleaves with a roster change. Events are queued while mu is held
// and handed to the sink after it is released, in the order they were
// produced.
type Lobby struct {
	name  string
	rules Rules
	grid  core.Grid
	sink  EventSink
	sched Scheduler
	log   *log.Logger

	mu           sync.Mutex
	rng          *rand.Rand
	state        State
	players      []*Player
	food         []core.Point
	speed        int
	round        int
	countdown    int
	lastWinner   string
	singlePlayer bool
	timers       timerSet
	closed       bool

	qmu        sync.Mutex
	queue      []Event
	delivering bool
}

// NewLobby creates an idle lobby.
func NewLobby(cfg LobbyConfig) (*Lobby, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, fmt.Errorf("new lobby: %w", ErrInvalidName)
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}

	sink := cfg.Sink
	if sink == nil {
		sink = discardSink{}
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = RealScheduler
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	seed := uint64(cfg.Rules.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Lobby{
		name:  name,
		rules: cfg.Rules,
		grid:  core.NewGrid(cfg.Rules.BoardSize),
		sink:  sink,
		sched: sched,
		log:   logger.With("lobby", name),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		state: StateLobby,
		speed: cfg.Rules.DefaultSpeed,
	}, nil
}

// Name is the immutable lobby identity.
func (l *Lobby) Name() string {
	return l.name
}

// State returns the current phase.
func (l *Lobby) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// PlayerCount returns the roster size.
func (l *Lobby) PlayerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.players)
}

// HasPlayer reports whether id is on the roster.
func (l *Lobby) HasPlayer(id PlayerID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.find(id) != nil
}

// Speed returns the selected speed.
func (l *Lobby) Speed() Speed {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rules.Speeds[l.speed]
}

// AddPlayer appends a player to the roster. Joining is only possible while
// the lobby is idle.
func (l *Lobby) AddPlayer(id PlayerID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("join %s: %w", l.name, ErrInvalidName)
	}

	l.mu.Lock()
	defer l.unlock()

	switch {
	case l.closed:
		return fmt.Errorf("join %s: %w", l.name, ErrNotFound)
	case !l.state.Idle():
		return fmt.Errorf("join %s: %w", l.name, ErrGameInProgress)
	case l.find(id) != nil:
		return fmt.Errorf("join %s: player %s: %w", l.name, id, ErrNameConflict)
	case len(l.players) >= l.rules.MaxPlayers:
		return fmt.Errorf("join %s: %w", l.name, ErrCapacityExceeded)
	}

	p := newPlayer(id, name, len(l.players))
	l.players = append(l.players, p)
	l.log.Info("player joined", "player", name, "slot", p.Slot)
	l.emit(EventLobbyUpdated)
	return nil
}

// RemovePlayer takes a player off the roster. In an idle lobby the remaining
// players are renumbered; during a game the lobby falls back to idle once too
// few players remain.
func (l *Lobby) RemovePlayer(id PlayerID) error {
	l.mu.Lock()
	defer l.unlock()

	idx := l.index(id)
	if idx < 0 {
		return fmt.Errorf("leave %s: player %s: %w", l.name, id, ErrNotFound)
	}
	p := l.players[idx]
	l.players = append(l.players[:idx], l.players[idx+1:]...)
	if p.Snake != nil {
		p.Snake.Kill()
	}
	l.log.Info("player left", "player", p.Name, "state", l.state)

	if l.state.Idle() {
		l.reassignSlots()
		l.emit(EventLobbyUpdated)
		l.startIfReady()
		return nil
	}

	if len(l.players) < l.minToContinue() {
		l.returnToLobby("not enough players")
		return nil
	}
	l.emit(EventLobbyUpdated)
	return nil
}

// SetReady flags a player as ready or not. When the last player becomes ready
// the game starts.
func (l *Lobby) SetReady(id PlayerID, ready bool) error {
	l.mu.Lock()
	defer l.unlock()

	p := l.find(id)
	if p == nil {
		return fmt.Errorf("ready %s: player %s: %w", l.name, id, ErrNotFound)
	}
	if !l.state.Idle() {
		return fmt.Errorf("ready %s: %w", l.name, ErrGameInProgress)
	}

	p.Ready = ready
	l.emit(EventLobbyUpdated)
	if ready {
		l.startIfReady()
	}
	return nil
}

// ToggleReady flips the ready flag and returns the new value.
func (l *Lobby) ToggleReady(id PlayerID) (bool, error) {
	l.mu.Lock()
	p := l.find(id)
	ready := p != nil && !p.Ready
	l.mu.Unlock()

	if p == nil {
		return false, fmt.Errorf("ready %s: player %s: %w", l.name, id, ErrNotFound)
	}
	return ready, l.SetReady(id, ready)
}

// StartGame starts a game if every player is ready and there are enough
// of them.
func (l *Lobby) StartGame() error {
	l.mu.Lock()
	defer l.unlock()
	return l.startGame()
}

// SetDirection queues a direction for the player's snake. Input for a
// player without a living snake is accepted and ignored.
func (l *Lobby) SetDirection(id PlayerID, dir core.Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("steer %s: %w", l.name, ErrInvalidDirection)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.find(id)
	if p == nil {
		return fmt.Errorf("steer %s: player %s: %w", l.name, id, ErrNotFound)
	}
	if p.Snake != nil {
		p.Snake.HandleInput(dir)
	}
	return nil
}

// ChangeSpeed advances to the next speed, wrapping after the last one.
func (l *Lobby) ChangeSpeed() (Speed, error) {
	l.mu.Lock()
	defer l.unlock()

	if !l.state.Idle() {
		return l.rules.Speeds[l.speed], fmt.Errorf("change speed %s: %w", l.name, ErrGameInProgress)
	}
	l.speed = (l.speed + 1) % len(l.rules.Speeds)
	s := l.rules.Speeds[l.speed]
	l.log.Info("speed changed", "speed", s.Name, "interval", s.Interval)
	l.emit(EventLobbyUpdated)
	return s, nil
}

// Rename changes a player's display name.
func (l *Lobby) Rename(id PlayerID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rename: %w", ErrInvalidName)
	}

	l.mu.Lock()
	defer l.unlock()

	p := l.find(id)
	if p == nil {
		return fmt.Errorf("rename in %s: player %s: %w", l.name, id, ErrNotFound)
	}
	p.Name = name
	l.emit(EventLobbyUpdated)
	return nil
}

// Snapshot returns the current client-facing state.
func (l *Lobby) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// Summary returns the lobby-list entry.
func (l *Lobby) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Summary{
		Name:        l.name,
		State:       l.state,
		Speed:       l.rules.Speeds[l.speed].View(),
		PlayerCount: len(l.players),
		MaxPlayers:  l.rules.MaxPlayers,
		Players:     l.playerData(),
	}
}

// Close cancels every timer. Callbacks already waiting on the mutex find a
// stale generation and return.
func (l *Lobby) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.timers.cancelAll()
}

func (l *Lobby) find(id PlayerID) *Player {
	if i := l.index(id); i >= 0 {
		return l.players[i]
	}
	return nil
}

func (l *Lobby) index(id PlayerID) int {
	for i, p := range l.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (l *Lobby) reassignSlots() {
	for i, p := range l.players {
		p.Slot = i
	}
}

// minToContinue is the roster size below which a running game is abandoned.
// A multiplayer game needs an opponent; a single-player run only needs its
// player.
func (l *Lobby) minToContinue() int {
	if l.singlePlayer {
		return l.rules.MinPlayers
	}
	return max(l.rules.MinPlayers, 2)
}

func (l *Lobby) startIfReady() {
	if len(l.players) < l.rules.MinPlayers {
		return
	}
	for _, p := range l.players {
		if !p.Ready {
			return
		}
	}
	if err := l.startGame(); err != nil {
		l.log.Warn("auto start failed", "err", err)
	}
}

func (l *Lobby) startGame() error {
	switch {
	case l.closed:
		return fmt.Errorf("start %s: %w", l.name, ErrNotFound)
	case !l.state.Idle():
		return fmt.Errorf("start %s: %w", l.name, ErrGameInProgress)
	case len(l.players) < l.rules.MinPlayers:
		return fmt.Errorf("start %s: %w", l.name, ErrInsufficientPlayers)
	}
	for _, p := range l.players {
		if !p.Ready {
			return fmt.Errorf("start %s: %s: %w", l.name, p.Name, ErrNotReady)
		}
	}

	l.singlePlayer = len(l.players) == 1
	l.round = 0
	l.lastWinner = ""
	for _, p := range l.players {
		p.ResetStatsForNewGame(l.rules.StartLength)
	}
	l.state = StateCountdown
	l.log.Info("game started",
		"players", len(l.players),
		"single", l.singlePlayer,
		"speed", l.rules.Speeds[l.speed].Name)
	l.emit(EventGameStarted)
	l.beginRound()
	return nil
}

// beginRound places fresh snakes, clears the food and starts the countdown.
func (l *Lobby) beginRound() {
	l.timers.cancel(slotTick)
	l.timers.cancel(slotFood)
	l.timers.cancel(slotPhase)

	l.round++
	l.food = nil
	for _, p := range l.players {
		sp := spawnFor(p.Slot, l.rules.BoardSize)
		p.Snake = NewSnake(l.grid, sp.origin, l.rules.StartLength, sp.dir)
		p.recordLength(l.rules.StartLength)
	}

	l.state = StateCountdown
	l.countdown = l.rules.Countdown
	l.log.Debug("round countdown", "round", l.round)
	l.emit(EventRoundCountdownStarted)

	if l.countdown <= 0 {
		l.startRound()
		return
	}
	l.schedule(slotCountdown, l.rules.CountdownInterval, l.countdownStep)
}

func (l *Lobby) countdownStep() {
	if l.state != StateCountdown {
		return
	}
	l.countdown--
	if l.countdown > 0 {
		l.emit(EventRoundCountdownUpdated)
		l.schedule(slotCountdown, l.rules.CountdownInterval, l.countdownStep)
		return
	}
	l.startRound()
}

func (l *Lobby) startRound() {
	l.state = StateRunning
	l.countdown = 0
	l.log.Debug("round started", "round", l.round)
	l.emit(EventRoundStarted)
	l.scheduleFood()
	l.scheduleTick()
}

func (l *Lobby) scheduleTick() {
	l.schedule(slotTick, l.rules.Speeds[l.speed].Interval, l.tick)
}

// returnToLobby abandons or finishes the game and makes the lobby joinable.
func (l *Lobby) returnToLobby(reason string) {
	l.timers.cancelAll()
	l.state = StateLobby
	l.countdown = 0
	l.food = nil
	for _, p := range l.players {
		p.Ready = false
		p.Snake = nil
	}
	l.reassignSlots()
	l.log.Info("game ended", "reason", reason)
	l.emit(EventGameEnded)
}

func (l *Lobby) finishGame() {
	l.returnToLobby("game over")
}

// schedule arms a timer slot. The callback runs under the lobby mutex and
// only if the slot has not been re-armed or cancelled in the meantime.
func (l *Lobby) schedule(slot timerSlot, d time.Duration, fn func()) {
	if l.closed {
		return
	}
	gen := l.timers.arm(slot)
	t := l.sched.AfterFunc(d, func() {
		l.fire(slot, gen, fn)
	})
	l.timers.set(slot, t)
}

func (l *Lobby) fire(slot timerSlot, gen uint64, fn func()) {
	l.mu.Lock()
	defer l.unlock()

	if l.closed || !l.timers.current(slot, gen) {
		return
	}
	l.timers.fired(slot)
	fn()
}

func (l *Lobby) playerData() []PlayerData {
	out := make([]PlayerData, 0, len(l.players))
	for _, p := range l.players {
		out = append(out, p.PackageData())
	}
	return out
}

func (l *Lobby) snapshot() Snapshot {
	food := make([]core.Point, len(l.food))
	copy(food, l.food)
	return Snapshot{
		Lobby:           l.name,
		State:           l.state,
		BoardSize:       l.rules.BoardSize,
		Speed:           l.rules.Speeds[l.speed].View(),
		Countdown:       l.countdown,
		CurrentRound:    l.round,
		RoundsToWin:     l.rules.RoundsToWin,
		LastRoundWinner: l.lastWinner,
		FoodPickups:     food,
		Players:         l.playerData(),
	}
}

// emit queues an event for the current roster. Requires mu.
func (l *Lobby) emit(kind EventKind) {
	recipients := make([]PlayerID, 0, len(l.players))
	for _, p := range l.players {
		recipients = append(recipients, p.ID)
	}
	evt := Event{
		Kind:       kind,
		Lobby:      l.name,
		Recipients: recipients,
		Snapshot:   l.snapshot(),
	}

	l.qmu.Lock()
	l.queue = append(l.queue, evt)
	l.qmu.Unlock()
}

// unlock releases mu and then delivers queued events.
func (l *Lobby) unlock() {
	l.mu.Unlock()
	l.deliver()
}

// deliver drains the event queue. Only one goroutine delivers at a time;
// others that arrive while a delivery is running leave their events to it,
// which keeps the sink's view ordered without holding mu during Publish.
func (l *Lobby) deliver() {
	l.qmu.Lock()
	if l.delivering {
		l.qmu.Unlock()
		return
	}
	l.delivering = true
	for len(l.queue) > 0 {
		batch := l.queue
		l.queue = nil
		l.qmu.Unlock()
		for _, evt := range batch {
			l.sink.Publish(evt)
		}
		l.qmu.Lock()
	}
	l.delivering = false
	l.qmu.Unlock()
}
