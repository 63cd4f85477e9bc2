// Package tui implements the -tui dashboard: a bubbletea program that runs
// one bounded generation and shows each term as it is committed, together
// with the time and memory budgets it is consuming.
package tui
