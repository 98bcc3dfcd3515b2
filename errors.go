package stopwatch

import "errors"

// Sentinel errors returned by the registry, Sample, and Stopwatch. All of
// them signal misuse of the bracketing protocol or the clock registry by the
// caller; none are transient, and none are retried internally. Match them
// with errors.Is.
var (
	// ErrInvalidSeconds is returned when a Sample would be created with a
	// negative duration.
	ErrInvalidSeconds = errors.New("seconds must be non-negative")

	// ErrIncompatibleClocks is returned by arithmetic and ordering across
	// Samples whose clocks do not share the same attributes or reader.
	ErrIncompatibleClocks = errors.New("incompatible clocks")

	// ErrUnknownClock is returned on a registry miss.
	ErrUnknownClock = errors.New("unknown clock")

	// ErrInvalidClockFunction is returned when registering a nil reader or
	// one whose no-argument probe yields a negative value.
	ErrInvalidClockFunction = errors.New("invalid clock function")

	// ErrNoMatchingStart is returned by Stop when no Start has ever been
	// issued on the stopwatch.
	ErrNoMatchingStart = errors.New("stop has no matching start")

	// ErrNoMatchingLabel is returned by StopLabel when no open region
	// carries the requested label.
	ErrNoMatchingLabel = errors.New("no open region with matching label")

	// ErrTooManyStops is returned by StopLabel when every region is already
	// closed, so there is nothing a label could match.
	ErrTooManyStops = errors.New("labeled stop with no open regions")
)
