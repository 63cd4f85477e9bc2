// Package format holds presentation helpers shared by the CLI and the
// HTTP transport: durations, progress bars with ETA, terms and byte sizes.
package format
