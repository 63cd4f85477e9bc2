// Package logging provides the structured logging interface used across
// fibseq. The only backend is zerolog; components depend on the Logger
// interface so tests can swap in NewNopLogger.
package logging
