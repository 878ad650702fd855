package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// playerColors cycles through distinct colors for player-owned glyphs.
var playerColors = []Color{ColorBrightCyan, ColorBrightMagenta, ColorBrightYellow, ColorBrightGreen, ColorOrange, ColorBrightBlue}

// PlayerColor returns the display color for a player. Neutral is gray.
func PlayerColor(p PlayerID) Color {
	if p <= Neutral {
		return ColorGray
	}
	return playerColors[(int(p)-1)%len(playerColors)]
}
