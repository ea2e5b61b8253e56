// Package telnet serves clash sessions over Telnet: connection handling,
// line input, and ANSI styling for battle output.
package telnet

import (
	"fmt"
	"strings"
)

// ANSI escape sequences.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
	BrightWhite  = "\033[97m"

	ClearScreen = "\033[2J\033[H"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return color + fmt.Sprintf(format, args...) + Reset
}

// StripANSI removes all \033[...X sequences from s.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < '@' || s[j] > '~') {
				j++
			}
			if j < len(s) {
				i = j
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// HealthColor picks green above half, yellow above a quarter and red below.
func HealthColor(current, maximum int) string {
	switch {
	case maximum <= 0 || current*4 <= maximum:
		return BrightRed
	case current*2 <= maximum:
		return BrightYellow
	default:
		return BrightGreen
	}
}

// Bar renders a width-cell gauge of current out of maximum, e.g.
// "[#######---]". The filled cell count is floored but never zero while
// current > 0.
//
// Precondition: width > 0.
func Bar(current, maximum, width int) string {
	filled := 0
	if maximum > 0 && current > 0 {
		filled = min(width, current*width/maximum)
		filled = max(filled, 1)
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// HealthBar renders a colored health gauge followed by "current/maximum".
func HealthBar(current, maximum, width int) string {
	return Colorize(HealthColor(current, maximum), Bar(current, maximum, width)) +
		fmt.Sprintf(" %d/%d", current, maximum)
}

// EnergyBar renders a cyan energy gauge followed by "current/maximum".
func EnergyBar(current, maximum, width int) string {
	return Colorize(BrightCyan, Bar(current, maximum, width)) + fmt.Sprintf(" %d/%d", current, maximum)
}
