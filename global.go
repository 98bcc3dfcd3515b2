package stopwatch

// DefaultRegistry is the clock registry used by Samples and Stopwatches
// that are not bound to an explicit one. Register custom clocks on it
// during startup, before any timing runs.
var DefaultRegistry = NewRegistry()

// std is the shared instance behind the package-level functions and the
// default of TimeFunc.
var std = NewStopwatch(DefaultName)

// Default returns the shared Stopwatch used by the package-level functions.
func Default() *Stopwatch {
	return std
}

// Start opens a region on the shared Stopwatch.
func Start(label string) error {
	return std.Start(label)
}

// Stop closes the most recently opened region on the shared Stopwatch.
func Stop() (float64, error) {
	return std.Stop()
}

// StopLabel closes the open region with the given label on the shared
// Stopwatch.
func StopLabel(label string) (float64, error) {
	return std.StopLabel(label)
}

// WallTime returns the wall time of the shared Stopwatch.
func WallTime() (seconds, minutes float64) {
	return std.WallTime()
}

// GetStats summarizes the shared Stopwatch's completed regions.
func GetStats(labels ...string) Stats {
	return std.GetStats(labels...)
}

// Clear empties the shared Stopwatch.
func Clear() {
	std.Clear()
}

// Reset restores the shared Stopwatch to its initial configuration.
func Reset() {
	std.Reset()
}
