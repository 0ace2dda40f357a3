package game

import "github.com/vovakirdan/pacsnake/internal/core"

// tick advances every living snake by one cell and resolves the round.
//
// All snakes move simultaneously. Tails are dropped before any head is
// projected, so a head may enter the cell a tail is leaving on the same tick.
// Head-to-head collisions are settled by length before anything else; food
// and body collisions are then checked per player in roster order against
// bodies that have not moved yet; finally every survivor commits its move.
func (l *Lobby) tick() {
	if l.state != StateRunning {
		return
	}

	alive := l.alivePlayers()

	// Lengths as seen at the start of the tick decide head-on fights.
	lengths := make(map[PlayerID]int, len(alive))
	for _, p := range alive {
		lengths[p.ID] = p.Snake.Len()
		if p.Snake.Len() >= p.Snake.TargetLength() {
			p.Snake.DropTail()
		}
	}

	next := make(map[PlayerID]core.Point, len(alive))
	for _, p := range alive {
		next[p.ID] = p.Snake.ProjectedPosition()
	}

	doomed := make(map[PlayerID]bool)
	var victors []*Player
	for i := range alive {
		for j := i + 1; j < len(alive); j++ {
			a, b := alive[i], alive[j]
			if next[a.ID] != next[b.ID] {
				continue
			}
			la, lb := lengths[a.ID], lengths[b.ID]
			switch {
			case la == lb:
				doomed[a.ID] = true
				doomed[b.ID] = true
			case la > lb:
				doomed[b.ID] = true
				victors = append(victors, a)
			default:
				doomed[a.ID] = true
				victors = append(victors, b)
			}
		}
	}
	for _, p := range alive {
		if doomed[p.ID] {
			l.killPlayer(p)
		}
	}
	// A kill only counts if the winner survived every head-on it was part of.
	for _, p := range victors {
		if !doomed[p.ID] {
			p.Kills++
		}
	}

	for _, p := range alive {
		if !p.Alive() {
			continue
		}
		pos := next[p.ID]
		l.pickUpFood(p, pos)
		if owner := l.bodyAt(p, pos); owner != nil {
			l.killPlayer(p)
			if owner != p {
				owner.Kills++
			}
		}
	}

	for _, p := range alive {
		if p.Alive() {
			p.Snake.MoveTo(next[p.ID])
		}
	}

	l.emit(EventStateUpdated)
	l.resolveRound()
	if l.state == StateRunning {
		l.scheduleTick()
	}
}

func (l *Lobby) alivePlayers() []*Player {
	out := make([]*Player, 0, len(l.players))
	for _, p := range l.players {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

func (l *Lobby) killPlayer(p *Player) {
	p.Snake.Kill()
	p.Deaths++
	l.log.Debug("snake died", "player", p.Name, "round", l.round)
}

// bodyAt returns the player whose current body covers pos. The mover's own
// head of record is skipped; every other segment, its own included, counts.
func (l *Lobby) bodyAt(mover *Player, pos core.Point) *Player {
	for _, other := range l.players {
		if !other.Alive() {
			continue
		}
		if other.Snake.Occupies(pos, other == mover) {
			return other
		}
	}
	return nil
}

// resolveRound checks the survivors after a tick and moves the lobby to the
// next phase when the round is decided.
func (l *Lobby) resolveRound() {
	survivors := l.alivePlayers()

	if l.singlePlayer {
		if len(survivors) > 0 {
			return
		}
		l.endRunning(StateGameOver)
		l.log.Info("single player game over", "round", l.round)
		l.emit(EventSinglePlayerGameOver)
		l.schedule(slotPhase, l.rules.GameOverDelay, l.finishGame)
		return
	}

	switch len(survivors) {
	case 0:
		l.lastWinner = ""
		l.endRunning(StateRoundFailed)
		l.log.Info("round failed", "round", l.round)
		l.emit(EventRoundFailed)
		l.schedule(slotPhase, l.rules.RoundDelay, l.beginRound)
	case 1:
		w := survivors[0]
		w.RoundsWon++
		l.lastWinner = w.Name
		if w.RoundsWon >= l.rules.RoundsToWin {
			l.endRunning(StateGameOver)
			l.log.Info("game won", "player", w.Name, "rounds", l.round)
			l.emit(EventGameOver)
			l.schedule(slotPhase, l.rules.GameOverDelay, l.finishGame)
			return
		}
		l.endRunning(StateRoundOver)
		l.log.Info("round won", "player", w.Name, "round", l.round)
		l.emit(EventRoundEnded)
		l.schedule(slotPhase, l.rules.RoundDelay, l.beginRound)
	}
}

func (l *Lobby) endRunning(next State) {
	l.timers.cancel(slotTick)
	l.timers.cancel(slotFood)
	l.state = next
}
