package game

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pacsnake/internal/core"
)

// manualScheduler fires timers only when the test advances its clock.
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in deadline order.
// Timers armed by callbacks fire too if they fall inside the window.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		t.f()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

func (s *manualScheduler) nextDue(target time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due *manualTimer
	for _, t := range s.timers {
		if t.stopped || t.fired || t.at > target {
			continue
		}
		if due == nil || t.at < due.at || (t.at == due.at && t.seq < due.seq) {
			due = t
		}
	}
	if due != nil {
		due.fired = true
		s.now = due.at
	}
	return due
}

// Pending counts timers that are armed and not yet fired or stopped.
func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) Kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) Has(kind EventKind) bool {
	for _, k := range r.Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

func (r *recorder) Last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}
	}
	return r.events[len(r.events)-1]
}

func (r *recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func testRules() Rules {
	r := DefaultRules()
	r.Seed = 42
	return r
}

type fixture struct {
	lobby *Lobby
	sched *manualScheduler
	rec   *recorder
}

func newFixture(t *testing.T, rules Rules) *fixture {
	t.Helper()
	sched := &manualScheduler{}
	rec := &recorder{}
	l, err := NewLobby(LobbyConfig{
		Name:      "test",
		Rules:     rules,
		Sink:      rec,
		Scheduler: sched,
		Logger:    log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewLobby: %v", err)
	}
	return &fixture{lobby: l, sched: sched, rec: rec}
}

func (f *fixture) join(t *testing.T, ids ...PlayerID) {
	t.Helper()
	for _, id := range ids {
		if err := f.lobby.AddPlayer(id, string(id)); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
	}
}

func (f *fixture) readyAll(t *testing.T, ids ...PlayerID) {
	t.Helper()
	for _, id := range ids {
		if err := f.lobby.SetReady(id, true); err != nil {
			t.Fatalf("SetReady(%s): %v", id, err)
		}
	}
}

// run puts the lobby straight into a running round with the given snakes,
// bypassing the countdown. Timers are cancelled so only explicit ticks move
// the board.
func (f *fixture) run(snakes map[PlayerID]*Snake) {
	l := f.lobby
	l.mu.Lock()
	defer l.unlock()
	l.timers.cancelAll()
	l.state = StateRunning
	l.round = 1
	l.singlePlayer = len(l.players) == 1
	l.food = nil
	for _, p := range l.players {
		p.Snake = snakes[p.ID]
	}
}

// step runs exactly one tick under the lobby mutex.
func (f *fixture) step() {
	l := f.lobby
	l.mu.Lock()
	defer l.unlock()
	l.tick()
}

func (f *fixture) placeFood(ps ...core.Point) {
	l := f.lobby
	l.mu.Lock()
	defer l.mu.Unlock()
	l.food = append(l.food, ps...)
}

func (f *fixture) player(id PlayerID) *Player {
	l := f.lobby
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.find(id)
}

// snakeAt builds a snake from explicit head-first chunks heading dir.
func snakeAt(grid core.Grid, dir core.Direction, chunks ...core.Point) *Snake {
	s := NewSnake(grid, chunks[0], 1, dir)
	s.chunks = append([]core.Point(nil), chunks...)
	s.targetLength = len(chunks)
	return s
}

// stopTicks cancels the pending tick so the clock can be advanced for other
// timers without moving snakes.
func (f *fixture) stopTicks() {
	l := f.lobby
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timers.cancel(slotTick)
}
