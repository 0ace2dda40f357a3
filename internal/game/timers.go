package game

import "time"

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler creates one-shot timers. The lobby never sleeps or spawns
// goroutines itself; everything time-based goes through a Scheduler so tests
// can drive the clock by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

// timerSlot identifies what a timer is for. Each slot holds at most one
// pending timer.
type timerSlot int

const (
	slotTick timerSlot = iota
	slotCountdown
	slotFood
	slotPhase
	slotCount
)

func (s timerSlot) String() string {
	switch s {
	case slotTick:
		return "tick"
	case slotCountdown:
		return "countdown"
	case slotFood:
		return "food"
	case slotPhase:
		return "phase"
	default:
		return "unknown"
	}
}

// timerSet tracks the pending timer and generation of every slot.
// A callback captures the generation it was armed with; if the slot has been
// re-armed or cancelled since, the generation no longer matches and the
// callback must do nothing. All methods require the lobby mutex.
type timerSet struct {
	timers [slotCount]Timer
	gens   [slotCount]uint64
}

// arm cancels whatever the slot held and returns the generation for the
// next timer.
func (ts *timerSet) arm(slot timerSlot) uint64 {
	ts.cancel(slot)
	return ts.gens[slot]
}

func (ts *timerSet) set(slot timerSlot, t Timer) {
	ts.timers[slot] = t
}

// current reports whether gen is still the live generation of slot.
func (ts *timerSet) current(slot timerSlot, gen uint64) bool {
	return ts.gens[slot] == gen && ts.timers[slot] != nil
}

// fired clears the slot after its callback has been accepted.
func (ts *timerSet) fired(slot timerSlot) {
	ts.timers[slot] = nil
	ts.gens[slot]++
}

func (ts *timerSet) cancel(slot timerSlot) {
	if t := ts.timers[slot]; t != nil {
		t.Stop()
		ts.timers[slot] = nil
	}
	ts.gens[slot]++
}

func (ts *timerSet) cancelAll() {
	for s := range slotCount {
		ts.cancel(s)
	}
}

func (ts *timerSet) pending(slot timerSlot) bool {
	return ts.timers[slot] != nil
}
