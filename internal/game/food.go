package game

import "github.com/vovakirdan/pacsnake/internal/core"

// scheduleFood replaces any pending spawn with a fresh one.
func (l *Lobby) scheduleFood() {
	l.schedule(slotFood, l.rules.FoodRespawnDelay, l.spawnFood)
}

func (l *Lobby) spawnFood() {
	if l.state != StateRunning {
		return
	}
	pos, ok := l.freeCell()
	if !ok {
		l.log.Debug("no free cell for food")
		return
	}
	l.food = append(l.food, pos)
}

// pickUpFood consumes the food at pos, if any, growing p's snake and queueing
// a replacement.
func (l *Lobby) pickUpFood(p *Player, pos core.Point) bool {
	for i, f := range l.food {
		if f != pos {
			continue
		}
		l.food = append(l.food[:i], l.food[i+1:]...)
		p.Snake.Grow()
		p.recordLength(p.Snake.TargetLength())
		l.scheduleFood()
		return true
	}
	return false
}

// freeCell samples uniformly until it finds a cell with no food, no body
// and no living snake about to move into it. It gives up only when no such
// cell exists.
func (l *Lobby) freeCell() (core.Point, bool) {
	blocked := make(map[core.Point]bool)
	for _, f := range l.food {
		blocked[f] = true
	}
	for _, p := range l.players {
		if !p.Alive() {
			continue
		}
		for _, c := range p.Snake.Chunks() {
			blocked[c] = true
		}
		blocked[p.Snake.ProjectedPosition()] = true
	}
	if len(blocked) >= l.grid.Cells() {
		return core.Point{}, false
	}

	n := l.rules.BoardSize
	for {
		p := core.Pt(l.rng.IntN(n), l.rng.IntN(n))
		if !blocked[p] {
			return p, true
		}
	}
}
