// Package apperrors defines structured application error types and exit
// codes, separating request validation failures from exhausted budgets
// (timeout, memory ceiling) and configuration mistakes.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Every type here can be located in a chain with errors.As.
package apperrors
