package core

import "fmt"

// Color is a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Terminal colors used when drawing the board.
const (
	ColorDefault Color = iota
	ColorPink
	ColorBlue
	ColorRed
	ColorGreen
	ColorYellow
	ColorGray
)

// RGBA is a player color as sent to browser clients.
type RGBA struct {
	R uint8   `json:"r"`
	G uint8   `json:"g"`
	B uint8   `json:"b"`
	A float64 `json:"a"`
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

// SlotColor pairs the wire color of a player slot with its terminal color.
type SlotColor struct {
	RGBA     RGBA
	Terminal Color
}

// Palette holds one color per player slot, in slot order.
var Palette = []SlotColor{
	{RGBA: RGBA{R: 255, G: 102, B: 204, A: 1}, Terminal: ColorPink},
	{RGBA: RGBA{R: 26, G: 102, B: 255, A: 1}, Terminal: ColorBlue},
	{RGBA: RGBA{R: 213, G: 50, B: 0, A: 1}, Terminal: ColorRed},
	{RGBA: RGBA{R: 30, G: 190, B: 0, A: 1}, Terminal: ColorGreen},
}

// SlotPalette returns the color for a slot, wrapping if slot exceeds the palette.
func SlotPalette(slot int) SlotColor {
	if slot < 0 {
		slot = 0
	}
	return Palette[slot%len(Palette)]
}
