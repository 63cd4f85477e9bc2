// Package metrics holds the memory probes consulted by the generator and
// the Prometheus recorder fed by the generator and the range cache.
package metrics
