package game

import "github.com/vovakirdan/pacsnake/internal/core"

// Snake is one actor on the board. Chunks are stored head-first.
//
// Moving is split into ProjectedPosition (read-only) and MoveTo (commit) so
// the lobby can evaluate every snake's next cell against every other snake
// before any of them changes position. Tail truncation is the caller's job
// and must happen before projection within a tick.
type Snake struct {
	grid         core.Grid
	head         core.Point
	chunks       []core.Point
	alive        bool
	nextDir      core.Direction // pending, applied on the next MoveTo
	lastDir      core.Direction // last committed, used to reject reversals
	targetLength int
}

// NewSnake builds a snake whose head sits at origin and whose body trails
// behind it, opposite to the initial direction, for startLength cells.
func NewSnake(grid core.Grid, origin core.Point, startLength int, dir core.Direction) *Snake {
	startLength = max(1, startLength)
	origin = grid.Wrap(origin)

	chunks := make([]core.Point, 0, startLength)
	p := origin
	for range startLength {
		chunks = append(chunks, p)
		p = grid.Step(p, dir.Opposite())
	}

	return &Snake{
		grid:         grid,
		head:         origin,
		chunks:       chunks,
		alive:        true,
		nextDir:      dir,
		lastDir:      dir,
		targetLength: startLength,
	}
}

// HandleInput queues a direction change. A direct reversal of the last
// committed direction is silently ignored, as is input for a dead snake.
func (s *Snake) HandleInput(dir core.Direction) {
	if !s.alive || !dir.Valid() {
		return
	}
	if dir == s.lastDir.Opposite() {
		return
	}
	s.nextDir = dir
}

// ProjectedPosition returns where the head would land on the next move.
func (s *Snake) ProjectedPosition() core.Point {
	return s.grid.Step(s.head, s.nextDir)
}

// MoveTo commits a move: pos becomes the new head and the pending direction
// becomes the committed one.
func (s *Snake) MoveTo(pos core.Point) {
	if !s.alive {
		return
	}
	s.head = pos
	s.chunks = append(s.chunks, core.Point{})
	copy(s.chunks[1:], s.chunks)
	s.chunks[0] = pos
	s.lastDir = s.nextDir
}

// DropTail removes the last body segment.
func (s *Snake) DropTail() {
	if len(s.chunks) == 0 {
		return
	}
	s.chunks = s.chunks[:len(s.chunks)-1]
}

// Grow raises the target length by one; the body catches up over later ticks.
func (s *Snake) Grow() {
	s.targetLength++
}

// Kill is idempotent: the snake stops being alive and loses its body.
func (s *Snake) Kill() {
	s.alive = false
	s.chunks = nil
}

// Alive reports whether the snake is still in play this round.
func (s *Snake) Alive() bool {
	return s.alive
}

// Head returns the head position of record.
func (s *Snake) Head() core.Point {
	return s.head
}

// Len is the number of body segments currently on the board.
func (s *Snake) Len() int {
	return len(s.chunks)
}

// TargetLength is the length the body is growing toward.
func (s *Snake) TargetLength() int {
	return s.targetLength
}

// Direction returns the pending direction.
func (s *Snake) Direction() core.Direction {
	return s.nextDir
}

// LastDirection returns the last committed direction.
func (s *Snake) LastDirection() core.Direction {
	return s.lastDir
}

// Chunks returns a copy of the body, head first.
func (s *Snake) Chunks() []core.Point {
	out := make([]core.Point, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Occupies reports whether any body segment other than the head of record,
// when skipHead is set, sits on p.
func (s *Snake) Occupies(p core.Point, skipHead bool) bool {
	for i, c := range s.chunks {
		if skipHead && i == 0 {
			continue
		}
		if c == p {
			return true
		}
	}
	return false
}

// SnakeView is the client-safe serialization of a snake.
type SnakeView struct {
	HeadX   int            `json:"headX"`
	HeadY   int            `json:"headY"`
	Dir     core.Direction `json:"dir"`
	IsAlive bool           `json:"isAlive"`
	Chunks  []core.Point   `json:"chunks"`
}

// View packages the snake for clients.
func (s *Snake) View() SnakeView {
	chunks := s.Chunks()
	if chunks == nil {
		chunks = []core.Point{}
	}
	return SnakeView{
		HeadX:   s.head.X,
		HeadY:   s.head.Y,
		Dir:     s.lastDir,
		IsAlive: s.alive,
		Chunks:  chunks,
	}
}
