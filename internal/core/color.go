package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for screen elements.
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

// tokenPalette is the screen color of each token color index, in order.
var tokenPalette = []Color{
	ColorBrightRed,
	ColorBrightGreen,
	ColorBrightBlue,
	ColorBrightYellow,
	ColorBrightMagenta,
	ColorBrightCyan,
	ColorOrange,
	ColorBrightWhite,
}

// tokenGlyphs gives each token color a distinct shape so the board stays
// readable without color support.
var tokenGlyphs = []rune{'●', '▲', '■', '◆', '★', '✚', '▼', '♥'}

// PaletteSize is the number of distinct token colors the screen can show.
const PaletteSize = 8

// TokenColor returns the screen color for token color index i.
func TokenColor(i int) Color {
	if i < 0 || i >= len(tokenPalette) {
		return ColorGray
	}
	return tokenPalette[i]
}

// TokenGlyph returns the glyph for token color index i.
func TokenGlyph(i int) rune {
	if i < 0 || i >= len(tokenGlyphs) {
		return '?'
	}
	return tokenGlyphs[i]
}
