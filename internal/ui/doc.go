// Package ui holds the color themes shared by the text output of the cli
// package and the lipgloss dashboard of the tui package.
//
// One theme is active per process. InitTheme picks it from -no-color, the
// NO_COLOR convention and TERM=dumb; Paint applies a color of the active
// theme to a string.
package ui
