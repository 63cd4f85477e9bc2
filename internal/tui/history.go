package tui

// sparkBlocks are the eight levels of a sparkline column, lowest first.
var sparkBlocks = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// usageHistory keeps the most recent memory samples, in bytes. Samples are
// scaled only when rendered, so a raised peak rescales the whole history.
type usageHistory struct {
	samples []uint64
	limit   int
}

func newUsageHistory(limit int) *usageHistory {
	return &usageHistory{limit: max(limit, 1)}
}

// add appends a sample, dropping the oldest beyond the limit.
func (h *usageHistory) add(v uint64) {
	h.samples = append(h.samples, v)
	h.trim()
}

// setLimit changes how many samples are kept; the newest survive.
func (h *usageHistory) setLimit(n int) {
	h.limit = max(n, 1)
	h.trim()
}

func (h *usageHistory) trim() {
	if over := len(h.samples) - h.limit; over > 0 {
		h.samples = append(h.samples[:0], h.samples[over:]...)
	}
}

func (h *usageHistory) reset() { h.samples = h.samples[:0] }

func (h *usageHistory) len() int { return len(h.samples) }

// render draws one column per sample, scaled against ref. A zero ref
// scales against the largest sample held.
func (h *usageHistory) render(ref uint64) string {
	if len(h.samples) == 0 {
		return ""
	}
	if ref == 0 {
		for _, v := range h.samples {
			ref = max(ref, v)
		}
	}
	out := make([]rune, len(h.samples))
	for i, v := range h.samples {
		level := 0
		if ref > 0 {
			level = int(float64(v) / float64(ref) * float64(len(sparkBlocks)-1))
		}
		out[i] = sparkBlocks[min(max(level, 0), len(sparkBlocks)-1)]
	}
	return string(out)
}
