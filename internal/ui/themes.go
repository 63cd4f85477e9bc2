package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme holds the lipgloss colors of the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
}

// Theme pairs the ANSI codes used by text output with the matching
// dashboard palette.
type Theme struct {
	Name string

	// Primary colors terms and titles.
	Primary string
	// Secondary colors labels and indices.
	Secondary string
	// Success marks complete runs.
	Success string
	// Warning marks partial runs and skipped indices.
	Warning string
	// Error marks rejected requests.
	Error string
	// Info colors budget figures and cache notes.
	Info  string
	Bold  string
	Reset string

	Dashboard TUITheme
}

var (
	// DarkTUITheme is the dashboard palette for dark backgrounds.
	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("#E0E0E0"),
		Border:  lipgloss.Color("#3A7BD5"),
		Accent:  lipgloss.Color("#00AFFF"),
		Success: lipgloss.Color("#9ECE6A"),
		Warning: lipgloss.Color("#FFB347"),
		Error:   lipgloss.Color("#FF4444"),
		Dim:     lipgloss.Color("#666666"),
	}

	// LightTUITheme is the dashboard palette for light backgrounds.
	LightTUITheme = TUITheme{
		Text:    lipgloss.Color("#202020"),
		Border:  lipgloss.Color("#1F4E9A"),
		Accent:  lipgloss.Color("#005FAF"),
		Success: lipgloss.Color("#2E7D32"),
		Warning: lipgloss.Color("#AF5F00"),
		Error:   lipgloss.Color("#B00020"),
		Dim:     lipgloss.Color("#8A8A8A"),
	}

	// NoColorTUITheme leaves every color to the terminal.
	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
	}
)

var (
	// DarkTheme is the default.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[38;5;141m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
		Dashboard: DarkTUITheme,
	}

	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Bold:      "\033[1m",
		Reset:     "\033[0m",
		Dashboard: LightTUITheme,
	}

	// NoColorTheme has empty codes, so Paint returns its input.
	NoColorTheme = Theme{Name: "none", Dashboard: NoColorTUITheme}
)

var themes = map[string]Theme{
	DarkTheme.Name:    DarkTheme,
	LightTheme.Name:   LightTheme,
	NoColorTheme.Name: NoColorTheme,
}

var (
	mu      sync.RWMutex
	current = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// GetCurrentTUITheme returns the dashboard palette of the active theme.
func GetCurrentTUITheme() TUITheme {
	return GetCurrentTheme().Dashboard
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	current = t
}

// SetTheme selects a theme by name ("dark", "light" or "none"). Unknown
// names select dark.
func SetTheme(name string) {
	t, ok := themes[name]
	if !ok {
		t = DarkTheme
	}
	SetCurrentTheme(t)
}

// InitTheme selects the colorless theme when noColor is set, when NO_COLOR
// is present in the environment (any value, see https://no-color.org/) or
// when TERM is "dumb". Otherwise the dark theme is active.
func InitTheme(noColor bool) {
	if noColor || colorDisabledByEnv() {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}

func colorDisabledByEnv() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}

// Paint wraps s in color and the reset code of the active theme. An empty
// color returns s unchanged.
func Paint(color, s string) string {
	if color == "" {
		return s
	}
	return color + s + GetCurrentTheme().Reset
}
