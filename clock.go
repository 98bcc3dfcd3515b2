package stopwatch

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"github.com/zoobzio/clockz"
)

// DefaultClock is the clock used by Samples and Stopwatches that do not
// name one explicitly.
const DefaultClock = "perf_counter"

// ClockFunc reads the current time in fractional seconds. Readers take no
// arguments in the common case; the variadic form exists solely for custom
// readers with non-trivial signatures, which are invoked through
// Sample.Record with the caller's arguments.
type ClockFunc func(args ...any) float64

// ClockInfo describes a registered clock. The zero value means the clock is
// not introspectable; compatibility then falls back to reader identity.
type ClockInfo struct {
	Adjustable     bool
	Monotonic      bool
	Resolution     float64
	Implementation string
}

type clockEntry struct {
	fn   ClockFunc
	info ClockInfo
}

// Registry maps clock names to reader functions and their attributes. Each
// Stopwatch resolves its clock through one Registry; independent registries
// keep tests and embedded uses isolated from each other.
//
// A Registry carries no locking. Register and Unregister all clocks before
// any Stopwatch bound to the registry runs; mutating the registry while
// trackers read from it must be serialized by the caller.
type Registry struct {
	clock       clockz.Clock
	epoch       time.Time
	clocks      map[string]clockEntry
	order       []string
	defaultName string
}

// NewRegistry creates a registry seeded with the built-in clocks, reading
// wall time from the system clock.
func NewRegistry() *Registry {
	return NewRegistryWithClock(clockz.RealClock)
}

// NewRegistryWithClock creates a seeded registry whose wall-time clocks read
// through the given clock. Tests pass a clockz.NewFakeClock() to make
// elapsed times deterministic.
func NewRegistryWithClock(c clockz.Clock) *Registry {
	r := &Registry{
		clock:       c,
		epoch:       c.Now(),
		clocks:      map[string]clockEntry{},
		defaultName: DefaultClock,
	}

	// CPU-time reader. The process handle is resolved once; readings that
	// fail report zero rather than aborting a measurement.
	proc, _ := process.NewProcess(int32(os.Getpid()))
	cpuSeconds := func(args ...any) float64 {
		if proc == nil {
			return 0
		}
		ts, err := proc.Times()
		if err != nil {
			return 0
		}
		return ts.User + ts.System
	}

	r.seed("process_time", cpuSeconds, ClockInfo{
		Monotonic:      true,
		Resolution:     1e-2,
		Implementation: "gopsutil process.Times (user+system CPU, excludes sleep)",
	})
	r.seed("perf_counter", func(args ...any) float64 {
		return r.clock.Now().Sub(r.epoch).Seconds()
	}, ClockInfo{
		Monotonic:      true,
		Resolution:     1e-9,
		Implementation: "clockz.Clock.Now since registry epoch",
	})
	r.seed("monotonic", func(args ...any) float64 {
		return r.clock.Now().Sub(r.epoch).Seconds()
	}, ClockInfo{
		Monotonic:      true,
		Resolution:     1e-6,
		Implementation: "clockz.Clock.Now since registry epoch, coarse",
	})
	r.seed("time", func(args ...any) float64 {
		return float64(r.clock.Now().UnixNano()) / 1e9
	}, ClockInfo{
		Adjustable:     true,
		Resolution:     1e-9,
		Implementation: "clockz.Clock.Now since Unix epoch",
	})
	return r
}

func (r *Registry) seed(name string, fn ClockFunc, info ClockInfo) {
	r.clocks[name] = clockEntry{fn: fn, info: info}
	r.order = append(r.order, name)
}

// Register inserts or overwrites a clock. The reader is probed once with no
// arguments and rejected if it yields a negative value; readers that panic
// on the probe are assumed to require arguments and are trusted.
func (r *Registry) Register(name string, fn ClockFunc, info ClockInfo) error {
	if name == "" {
		return fmt.Errorf("%w: clock name must be non-empty", ErrInvalidClockFunction)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil reader for clock %q", ErrInvalidClockFunction, name)
	}
	if !probeClock(fn) {
		return fmt.Errorf("%w: reader for clock %q returned a negative value", ErrInvalidClockFunction, name)
	}
	if _, exists := r.clocks[name]; !exists {
		r.order = append(r.order, name)
	}
	r.clocks[name] = clockEntry{fn: fn, info: info}
	return nil
}

// probeClock invokes the reader once with no arguments to check that it
// yields a sane value. Readers with mandatory arguments panic here; they are
// exempted from validation.
func probeClock(fn ClockFunc) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = true
		}
	}()
	return fn() >= 0
}

// Unregister removes a clock.
func (r *Registry) Unregister(name string) error {
	if _, exists := r.clocks[name]; !exists {
		return fmt.Errorf("%w: %q", ErrUnknownClock, name)
	}
	delete(r.clocks, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Resolve returns the reader and attributes of a registered clock.
func (r *Registry) Resolve(name string) (ClockFunc, ClockInfo, error) {
	e, exists := r.clocks[name]
	if !exists {
		return nil, ClockInfo{}, fmt.Errorf("%w: %q", ErrUnknownClock, name)
	}
	return e.fn, e.info, nil
}

// Compatible reports whether two clocks can be mixed in Sample arithmetic:
// either they resolve to the same reader, or both are introspectable and
// carry identical attributes.
func (r *Registry) Compatible(a, b string) (bool, error) {
	ea, exists := r.clocks[a]
	if !exists {
		return false, fmt.Errorf("%w: %q", ErrUnknownClock, a)
	}
	eb, exists := r.clocks[b]
	if !exists {
		return false, fmt.Errorf("%w: %q", ErrUnknownClock, b)
	}
	if reflect.ValueOf(ea.fn).Pointer() == reflect.ValueOf(eb.fn).Pointer() {
		return true, nil
	}
	var unknown ClockInfo
	if ea.info == unknown || eb.info == unknown {
		return false, nil
	}
	return ea.info == eb.info, nil
}

// Names returns the registered clock names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Default returns the name of the clock used when none is given.
func (r *Registry) Default() string {
	return r.defaultName
}

// SetDefault changes the clock used when none is given.
func (r *Registry) SetDefault(name string) error {
	if _, exists := r.clocks[name]; !exists {
		return fmt.Errorf("%w: %q", ErrUnknownClock, name)
	}
	r.defaultName = name
	return nil
}

// Describe renders a clock's attributes as an indented block.
func (r *Registry) Describe(name string) (string, error) {
	_, info, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	b := strings.Builder{}
	fmt.Fprintf(&b, "%q\n", name)
	fmt.Fprintf(&b, "    adjustable    : %t\n", info.Adjustable)
	fmt.Fprintf(&b, "    monotonic     : %t\n", info.Monotonic)
	fmt.Fprintf(&b, "    resolution    : %g\n", info.Resolution)
	fmt.Fprintf(&b, "    implementation: %s\n", info.Implementation)
	return b.String(), nil
}

// DescribeAll renders every registered clock in registration order.
func (r *Registry) DescribeAll() string {
	b := strings.Builder{}
	for _, name := range r.order {
		s, err := r.Describe(name)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s)
	}
	return b.String()
}
