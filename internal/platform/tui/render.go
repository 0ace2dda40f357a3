package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pacsnake/internal/core"
	"github.com/vovakirdan/pacsnake/internal/game"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorPink:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("27")).Bold(true),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("166")).Bold(true),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
}

// RenderScreen converts a Screen buffer to a styled string.
// Adjacent cells of one color are rendered as a single run.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color

			var run strings.Builder
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}

			style, ok := colorStyles[color]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// cellWidth is how many terminal columns one board cell takes. Terminal
// cells are roughly twice as tall as wide.
const cellWidth = 2

// BoardExtent returns the on-screen size of an n-sized board with its frame.
func BoardExtent(n int) (w, h int) {
	return n*cellWidth + 2, n + 2
}

// DrawBoard draws the frame, food and snakes of snap with the frame's
// top-left corner at (x, y). Dead snakes are drawn first so living ones
// stay visible where they overlap.
func DrawBoard(dst *core.Screen, snap game.Snapshot, x, y int) {
	w, h := BoardExtent(snap.BoardSize)
	dst.DrawBox(x, y, w, h)

	grid := core.NewGrid(snap.BoardSize)
	put := func(p core.Point, r rune, c core.Color) {
		if grid.Contains(p) {
			dst.SetColored(x+1+p.X*cellWidth, y+1+p.Y, r, c)
		}
	}

	for _, f := range snap.FoodPickups {
		put(f, '*', core.ColorYellow)
	}

	for _, alive := range []bool{false, true} {
		for _, p := range snap.Players {
			s := p.Snake
			if s == nil || s.IsAlive != alive {
				continue
			}
			color := core.SlotPalette(p.Slot).Terminal
			if !alive {
				color = core.ColorGray
			}
			for i := len(s.Chunks) - 1; i >= 0; i-- {
				r := 'o'
				if i == 0 {
					r = headRune(s.Dir, alive)
				}
				put(s.Chunks[i], r, color)
			}
		}
	}
}

func headRune(d core.Direction, alive bool) rune {
	if !alive {
		return 'x'
	}
	switch d {
	case core.DirUp:
		return '^'
	case core.DirDown:
		return 'v'
	case core.DirLeft:
		return '<'
	default:
		return '>'
	}
}

// Banner returns the line shown over the board for the current phase, or
// "" while a round is being played.
func Banner(snap game.Snapshot) string {
	switch snap.State {
	case game.StateCountdown:
		return fmt.Sprintf("ROUND %d STARTS IN %d", snap.CurrentRound, snap.Countdown)
	case game.StateRoundOver:
		return fmt.Sprintf("%s WON THE ROUND", strings.ToUpper(snap.LastRoundWinner))
	case game.StateRoundFailed:
		return "NOBODY WON THE ROUND..."
	case game.StateGameOver:
		if len(snap.Players) == 1 {
			return "GAME OVER"
		}
		return fmt.Sprintf("%s WINS THE GAME", strings.ToUpper(snap.LastRoundWinner))
	}
	return ""
}

// Scoreboard lists each player's slot color, name and stats, one per line.
func Scoreboard(snap game.Snapshot) []string {
	lines := make([]string, 0, len(snap.Players)+1)
	lines = append(lines, fmt.Sprintf("%-14s %4s %4s %4s %4s", "PLAYER", "WINS", "KILL", "DIED", "BEST"))
	for _, p := range snap.Players {
		name := p.Name
		if len(name) > 14 {
			name = name[:14]
		}
		lines = append(lines, fmt.Sprintf("%-14s %4d %4d %4d %4d",
			name, p.RoundsWon, p.KillCount, p.DeathCount, p.LongestSnakeLength))
	}
	return lines
}
