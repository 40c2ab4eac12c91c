// Package theme provides the color themes for the TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used in the application UI.
type Theme struct {
	Background lipgloss.Color
	Accent     lipgloss.Color
	AccentFg   lipgloss.Color // Foreground color for text on Accent background
	Border     lipgloss.Color
	BorderDim  lipgloss.Color
	MutedFg    lipgloss.Color
	TextFg     lipgloss.Color
	SuccessFg  lipgloss.Color
	WarnFg     lipgloss.Color
	ErrorFg    lipgloss.Color
}

// Theme names.
const (
	DraculaName    = "dracula"
	CleanLightName = "clean-light"
	NordName       = "nord"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Background: lipgloss.Color("#282A36"),
		Accent:     lipgloss.Color("#BD93F9"), // Purple (primary accent)
		AccentFg:   lipgloss.Color("#282A36"),
		Border:     lipgloss.Color("#6272A4"),
		BorderDim:  lipgloss.Color("#44475A"),
		MutedFg:    lipgloss.Color("#6272A4"),
		TextFg:     lipgloss.Color("#F8F8F2"),
		SuccessFg:  lipgloss.Color("#50FA7B"),
		WarnFg:     lipgloss.Color("#FFB86C"),
		ErrorFg:    lipgloss.Color("#FF5555"),
	}
}

// CleanLight returns a minimal light theme.
func CleanLight() *Theme {
	return &Theme{
		Background: lipgloss.Color("#FFFFFF"),
		Accent:     lipgloss.Color("#0969DA"),
		AccentFg:   lipgloss.Color("#FFFFFF"),
		Border:     lipgloss.Color("#D0D7DE"),
		BorderDim:  lipgloss.Color("#E8E8E8"),
		MutedFg:    lipgloss.Color("#6E7781"),
		TextFg:     lipgloss.Color("#24292F"),
		SuccessFg:  lipgloss.Color("#059669"),
		WarnFg:     lipgloss.Color("#D97706"),
		ErrorFg:    lipgloss.Color("#DC2626"),
	}
}

// Nord returns the Nord theme (cool, muted blues).
func Nord() *Theme {
	return &Theme{
		Background: lipgloss.Color("#2E3440"),
		Accent:     lipgloss.Color("#88C0D0"),
		AccentFg:   lipgloss.Color("#2E3440"),
		Border:     lipgloss.Color("#4C566A"),
		BorderDim:  lipgloss.Color("#3B4252"),
		MutedFg:    lipgloss.Color("#616E88"),
		TextFg:     lipgloss.Color("#ECEFF4"),
		SuccessFg:  lipgloss.Color("#A3BE8C"),
		WarnFg:     lipgloss.Color("#EBCB8B"),
		ErrorFg:    lipgloss.Color("#BF616A"),
	}
}

var themes = map[string]func() *Theme{
	DraculaName:    Dracula,
	CleanLightName: CleanLight,
	NordName:       Nord,
}

// AvailableThemes returns the known theme names.
func AvailableThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	return names
}

// ByName returns the theme for name, falling back to Dracula for unknown
// or empty names.
func ByName(name string) *Theme {
	if builder, ok := themes[name]; ok {
		return builder()
	}
	return Dracula()
}

// Known reports whether name identifies a theme.
func Known(name string) bool {
	_, ok := themes[name]
	return ok
}
