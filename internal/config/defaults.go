package config

import "runtime"

// EstimateBatchConcurrency picks the default number of ranges computed at
// once in batch mode. Runs spend most of their time waiting out the term
// delay, so the estimate oversubscribes the CPUs.
func EstimateBatchConcurrency() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return 4
	case numCPU <= 8:
		return 2 * numCPU
	default:
		return 16
	}
}
