package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

// Predefined colors. Element colors come first so games can index them
// directly.
const (
	ColorDefault Color = iota
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
	ColorBrightWhite
	ColorBrightYellow
)

var colorNames = [...]string{
	ColorDefault:      "default",
	ColorRed:          "red",
	ColorOrange:       "orange",
	ColorYellow:       "yellow",
	ColorGreen:        "green",
	ColorBlue:         "blue",
	ColorMagenta:      "magenta",
	ColorCyan:         "cyan",
	ColorWhite:        "white",
	ColorGray:         "gray",
	ColorBrightWhite:  "bright_white",
	ColorBrightYellow: "bright_yellow",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}
