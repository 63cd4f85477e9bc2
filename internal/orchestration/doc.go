// Package orchestration connects callers to the range cache and the
// bounded generator. It validates requests, coalesces identical in-flight
// cached requests, and runs batches of ranges concurrently. Presentation
// stays behind the ResultPresenter and ErrorHandler interfaces.
package orchestration
