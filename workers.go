package mdslide

import "runtime"

// Worker sizing bounds for batch conversion.
const (
	// MinWorkers ensures at least one conversion runs.
	MinWorkers = 1

	// MaxWorkers caps concurrent conversions; each holds a full document,
	// its tree and its rendered page in memory.
	MaxWorkers = 16
)

// ResolveWorkers determines how many files to convert concurrently.
// Priority: explicit workers > GOMAXPROCS (adjusted by automaxprocs in
// containers), clamped to [MinWorkers, MaxWorkers].
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
