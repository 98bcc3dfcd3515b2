// Package stopwatch records elapsed time for bracketed regions of running
// code. Callers mark the beginning of a region with Start and its end with
// Stop or StopLabel; the package keeps results in start order and derives
// per-region percentages, cumulative totals, wall time, and summary
// statistics from them.
//
// Regions may overlap: consecutive, nested, cascading, and label-paired
// bracketing all work against the same Stopwatch, in any combination. Time
// is read through a registry of named clocks seeded with a monotonic
// high-resolution counter, a process CPU-time counter, and the adjustable
// wall clock; custom readers can be registered alongside them.
//
// Bracketing mistakes — a stop with no start, a label nothing matches, a
// labeled stop with no open region — surface as sentinel errors the moment
// they happen. Introspection is deliberately softer: queries, removals, and
// statistics over labels that match nothing return empty results rather
// than errors.
package stopwatch

import (
	"fmt"

	"github.com/spf13/afero"
)

// DefaultName is the container name used when none is given, and the name
// restored by Reset.
const DefaultName = "stopwatch"

// Breakdown carries the derived fields of one completed region, computed
// over the whole result set once every region is closed. A nil *Breakdown
// on a slot means the pass has not run since that region closed.
type Breakdown struct {
	// RelativePercent is this region's share of the summed seconds, in
	// [0, 1].
	RelativePercent float64

	// CumulativeSeconds is the running sum of seconds up to and including
	// this region, in result order.
	CumulativeSeconds float64

	// CumulativeMinutes is the running sum of minutes up to and including
	// this region, in result order.
	CumulativeMinutes float64

	// CumulativePercent is CumulativeSeconds over the summed seconds, in
	// [0, 1].
	CumulativePercent float64
}

// slot is one reserved position in the result array. A slot is created open
// by Start, which fixes the region's position in the results regardless of
// the order stops arrive in, and closed by the matching Stop.
type slot struct {
	open      bool
	sample    *Sample
	breakdown *Breakdown
}

// Stopwatch records elapsed time for an arbitrary number of bracketed code
// regions. Points in the code are marked with Start and the matching end of
// a region with Stop or StopLabel; results are ordered by the Start calls
// and can be queried, removed, summarized, and written out.
//
// Four bracketing schemes are supported, and may be mixed freely:
//
//	Consecutive:  Start("A"), Stop(), Start("B"), Stop()
//	Cascade:      Start("A"), Stop(), Stop(), ...
//	Nested:       Start("A"), Start("B"), Stop(), Stop()
//	Label-paired: Start("A"), Start("B"), StopLabel("A"), StopLabel("B")
//
// A Stopwatch serves one logical flow of control and carries no locking.
// Concurrent flows each need their own instance.
type Stopwatch struct {
	name      string
	reg       *Registry
	clockName string
	fs        afero.Fs

	// scratch takes the raw reading at every stop before any matching
	// work happens.
	scratch *Sample

	// first anchors wall time at the very first start; last supports the
	// cascade scheme once the stack has drained.
	first *Sample
	last  *Sample

	// slots holds one entry per region in start order; stack holds the
	// regions still open. The number of open slots always equals the
	// stack length.
	slots []slot
	stack []*Sample
}

// NewStopwatch creates a Stopwatch bound to DefaultRegistry and its default
// clock. An empty name selects DefaultName.
func NewStopwatch(name string) *Stopwatch {
	if name == "" {
		name = DefaultName
	}
	return &Stopwatch{
		name:      name,
		reg:       DefaultRegistry,
		clockName: DefaultRegistry.Default(),
		fs:        afero.NewOsFs(),
	}
}

// WithRegistry rebinds the stopwatch to a registry and its default clock.
func (s *Stopwatch) WithRegistry(reg *Registry) *Stopwatch {
	s.reg = reg
	s.clockName = reg.Default()
	s.scratch = nil
	return s
}

// WithClockName selects the clock used for all readings. An unregistered
// name surfaces as ErrUnknownClock on the next Start or Stop.
func (s *Stopwatch) WithClockName(name string) *Stopwatch {
	s.clockName = name
	s.scratch = nil
	return s
}

// WithFs selects the filesystem ToFile writes through. Tests pass an
// afero.NewMemMapFs().
func (s *Stopwatch) WithFs(fs afero.Fs) *Stopwatch {
	s.fs = fs
	return s
}

// Name returns the container name. It seeds the default ToFile filename.
func (s *Stopwatch) Name() string {
	return s.name
}

// ClockName returns the name of the clock used for readings.
func (s *Stopwatch) ClockName() string {
	return s.clockName
}

// Registry returns the clock registry the stopwatch resolves against.
func (s *Stopwatch) Registry() *Registry {
	return s.reg
}

func (s *Stopwatch) scratchSample() (*Sample, error) {
	if s.scratch == nil {
		sc, err := NewSampleWithClock(s.reg, "", 0, s.clockName)
		if err != nil {
			return nil, err
		}
		s.scratch = sc
	}
	return s.scratch, nil
}

// Start opens a region. The region's position among the results is reserved
// now, at the current end of the result array; the clock is read last so the
// bookkeeping above stays out of the measured interval.
func (s *Stopwatch) Start(label string) error {
	sample, err := NewSampleWithClock(s.reg, label, 0, s.clockName)
	if err != nil {
		return err
	}
	s.last = sample
	if s.first == nil {
		s.first = sample
	}
	s.stack = append(s.stack, sample)
	s.slots = append(s.slots, slot{open: true})
	sample.Record()
	return nil
}

// Stop closes the most recently opened region and returns its elapsed
// seconds. With every region already closed it instead measures from the
// most recent start, appending a new result: the cascade scheme, where one
// start serves several consecutive stops.
//
// Returns ErrNoMatchingStart if no start has ever been issued.
func (s *Stopwatch) Stop() (float64, error) {
	return s.stop("", false)
}

// StopLabel closes the most recently opened region carrying the given
// label, which need not be the top of the stack: regions opened after it
// stay open, supporting out-of-order, label-paired bracketing.
//
// Returns ErrNoMatchingLabel if no open region carries the label, and
// ErrTooManyStops if every region is already closed.
func (s *Stopwatch) StopLabel(label string) (float64, error) {
	return s.stop(label, true)
}

func (s *Stopwatch) stop(label string, labeled bool) (float64, error) {
	sc, err := s.scratchSample()
	if err != nil {
		return 0, err
	}
	// Read the clock before any matching work so the bookkeeping below
	// adds no trailing noise to the measurement.
	sc.Record()

	if s.last == nil {
		return 0, ErrNoMatchingStart
	}

	var elapsed *Sample
	if len(s.stack) > 0 {
		idx := len(s.stack) - 1
		if labeled {
			idx = -1
			for i := len(s.stack) - 1; i >= 0; i-- {
				if s.stack[i].Label == label {
					idx = i
					break
				}
			}
			if idx < 0 {
				return 0, fmt.Errorf("%w: %q", ErrNoMatchingLabel, label)
			}
		}
		opened := s.stack[idx]
		elapsed, err = sc.Sub(opened)
		if err != nil {
			return 0, err
		}

		// The k-th stack entry owns the k-th open slot, so resolve the
		// target position before the stack shrinks.
		pos := s.openSlotPosition(idx)
		s.stack = append(s.stack[:idx], s.stack[idx+1:]...)
		s.slots[pos] = slot{sample: elapsed}
	} else {
		if labeled {
			return 0, fmt.Errorf("%w: label %q", ErrTooManyStops, label)
		}
		// Cascade: every region is closed, so measure from the most
		// recent start and append a fresh result.
		elapsed, err = sc.Sub(s.last)
		if err != nil {
			return 0, err
		}
		s.slots = append(s.slots, slot{sample: elapsed})
	}

	if s.openCount() == 0 {
		s.updateBreakdowns()
	}
	return elapsed.Seconds(), nil
}

// openSlotPosition returns the position in slots of the k-th open slot.
func (s *Stopwatch) openSlotPosition(k int) int {
	n := 0
	for i, sl := range s.slots {
		if !sl.open {
			continue
		}
		if n == k {
			return i
		}
		n++
	}
	// Unreachable while the open-slot/stack invariant holds.
	panic("stopwatch: open slot count diverged from region stack")
}

func (s *Stopwatch) openCount() int {
	n := 0
	for _, sl := range s.slots {
		if sl.open {
			n++
		}
	}
	return n
}

// updateBreakdowns recomputes every derived field in one left-to-right
// scan. It runs each time the last open region closes; a full recomputation
// is cheap and cannot go stale the way incremental bookkeeping can.
func (s *Stopwatch) updateBreakdowns() {
	total := 0.0
	for _, sl := range s.slots {
		total += sl.sample.Seconds()
	}
	cumSec, cumMin := 0.0, 0.0
	for i := range s.slots {
		sl := &s.slots[i]
		cumSec += sl.sample.Seconds()
		cumMin += sl.sample.Minutes()
		bd := &Breakdown{
			CumulativeSeconds: cumSec,
			CumulativeMinutes: cumMin,
		}
		if total > 0 {
			bd.RelativePercent = sl.sample.Seconds() / total
			bd.CumulativePercent = cumSec / total
		}
		sl.breakdown = bd
	}
}

// WallTime returns the elapsed seconds and minutes between the first start
// and the most recent stop, including any gaps between regions. It is never
// less than the sum of the recorded regions. Zero before the first start.
func (s *Stopwatch) WallTime() (seconds, minutes float64) {
	if s.first == nil || s.scratch == nil {
		return 0, 0
	}
	return s.scratch.Seconds() - s.first.Seconds(), s.scratch.Minutes() - s.first.Minutes()
}

// Labels returns the labels of the completed regions in result order.
func (s *Stopwatch) Labels() []string {
	var labels []string
	for _, sl := range s.slots {
		if !sl.open {
			labels = append(labels, sl.sample.Label)
		}
	}
	return labels
}

// ActiveLabels returns the labels of the still-open regions, oldest first.
func (s *Stopwatch) ActiveLabels() []string {
	var labels []string
	for _, sample := range s.stack {
		labels = append(labels, sample.Label)
	}
	return labels
}

// Seconds returns the elapsed seconds of the completed regions in result
// order.
func (s *Stopwatch) Seconds() []float64 {
	var secs []float64
	for _, sl := range s.slots {
		if !sl.open {
			secs = append(secs, sl.sample.Seconds())
		}
	}
	return secs
}

// Minutes returns the elapsed minutes of the completed regions in result
// order.
func (s *Stopwatch) Minutes() []float64 {
	var mins []float64
	for _, sl := range s.slots {
		if !sl.open {
			mins = append(mins, sl.sample.Minutes())
		}
	}
	return mins
}

// Breakdowns returns the derived fields of the completed regions in result
// order. Entries are nil until every region has closed.
func (s *Stopwatch) Breakdowns() []*Breakdown {
	var bds []*Breakdown
	for _, sl := range s.slots {
		if !sl.open {
			bds = append(bds, sl.breakdown)
		}
	}
	return bds
}

// Times returns a map from label to the elapsed seconds of every completed
// region carrying it.
func (s *Stopwatch) Times() map[string][]float64 {
	times := map[string][]float64{}
	for _, sl := range s.slots {
		if !sl.open {
			times[sl.sample.Label] = append(times[sl.sample.Label], sl.sample.Seconds())
		}
	}
	return times
}

// Clear empties the results and the open-region stack, keeping name, clock,
// and registry.
func (s *Stopwatch) Clear() {
	s.slots = nil
	s.stack = nil
	s.first = nil
	s.last = nil
	if s.scratch != nil {
		s.scratch.Clear()
	}
}

// Reset clears the stopwatch and additionally restores the name to
// DefaultName and the clock to the registry's current default.
func (s *Stopwatch) Reset() {
	s.name = DefaultName
	s.clockName = s.reg.Default()
	s.scratch = nil
	s.Clear()
}
