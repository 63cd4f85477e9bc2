// Package generator computes contiguous ranges of Fibonacci terms under a
// wall-clock timeout and a memory ceiling, returning whatever prefix was
// completed together with the reason the run stopped.
package generator
