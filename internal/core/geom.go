// Package core provides fundamental types shared by the simulation and the
// transports: grid geometry, directions, colors, client actions and a screen
// buffer. It has no dependencies on the game rules or on any transport.
package core

import "fmt"

// Point is a cell position on the board.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four axis directions a snake can move in.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists all valid directions in declaration order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Delta returns the unit offset for one step in this direction.
// Y grows downwards, matching screen coordinates.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

// Valid reports whether d is one of the four declared directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts the wire form ("up", "down", "left", "right").
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return 0, fmt.Errorf("core: unknown direction %q", s)
}

// MarshalText encodes the direction in its wire form.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("core: invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes the wire form.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Grid is a square toroidal board of Size×Size cells.
// Every coordinate produced by Wrap and Step lies in [0, Size).
type Grid struct {
	Size int
}

// NewGrid creates a grid with the given side length.
func NewGrid(size int) Grid {
	return Grid{Size: size}
}

// Wrap maps any point onto the board, wrapping both axes modulo Size.
func (g Grid) Wrap(p Point) Point {
	return Point{X: mod(p.X, g.Size), Y: mod(p.Y, g.Size)}
}

// Step moves one cell in direction d, wrapping at the edges.
func (g Grid) Step(p Point, d Direction) Point {
	dx, dy := d.Delta()
	return g.Wrap(Point{X: p.X + dx, Y: p.Y + dy})
}

// Contains reports whether p is already on the board.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Size && p.Y >= 0 && p.Y < g.Size
}

// Cells returns the total number of cells.
func (g Grid) Cells() int {
	return g.Size * g.Size
}

// mod is a Euclidean modulo: the result is always in [0, n).
func mod(v, n int) int {
	if n <= 0 {
		return 0
	}
	r := v % n
	if r < 0 {
		r += n
	}
	return r
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
