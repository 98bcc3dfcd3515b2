package stopwatch

// Key selects completed regions for Query and Remove. The three kinds are
// built with ByLabel, ByIndex, and ByRange; keys of different kinds may be
// mixed in one call. A key that matches nothing is a no-op, never an error.
type Key interface {
	isKey()
}

type labelKey string

type indexKey int

type rangeKey struct {
	start, stop int
}

func (labelKey) isKey() {}
func (indexKey) isKey() {}
func (rangeKey) isKey() {}

// ByLabel selects every completed region whose label equals label exactly.
func ByLabel(label string) Key {
	return labelKey(label)
}

// ByIndex selects the completed region at the given position in the result
// array. Out-of-range positions and still-open regions are skipped.
func ByIndex(i int) Key {
	return indexKey(i)
}

// ByRange selects the completed regions in the half-open position range
// [start, stop). The range is clamped to the result array.
func ByRange(start, stop int) Key {
	return rangeKey{start: start, stop: stop}
}

func (r rangeKey) clamp(n int) (int, int) {
	start, stop := r.start, r.stop
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if stop > n {
		stop = n
	}
	if stop < start {
		stop = start
	}
	return start, stop
}

// Query returns the elapsed seconds of the regions the keys select,
// concatenated in the order the keys were given. Returns nil when nothing
// matched.
func (s *Stopwatch) Query(keys ...Key) []float64 {
	var secs []float64
	for _, key := range keys {
		switch k := key.(type) {
		case labelKey:
			for _, sl := range s.slots {
				if !sl.open && sl.sample.Label == string(k) {
					secs = append(secs, sl.sample.Seconds())
				}
			}
		case indexKey:
			i := int(k)
			if i >= 0 && i < len(s.slots) && !s.slots[i].open {
				secs = append(secs, s.slots[i].sample.Seconds())
			}
		case rangeKey:
			start, stop := k.clamp(len(s.slots))
			for _, sl := range s.slots[start:stop] {
				if !sl.open {
					secs = append(secs, sl.sample.Seconds())
				}
			}
		}
	}
	return secs
}

// Remove deletes the completed regions the keys select. A label removes
// every completed region carrying it. Open regions are never removed: their
// slots are owned by the region stack until the matching stop arrives.
func (s *Stopwatch) Remove(keys ...Key) {
	for _, key := range keys {
		switch k := key.(type) {
		case labelKey:
			s.removeWhere(func(i int, sl slot) bool {
				return sl.sample.Label == string(k)
			})
		case indexKey:
			i := int(k)
			if i >= 0 && i < len(s.slots) && !s.slots[i].open {
				s.slots = append(s.slots[:i], s.slots[i+1:]...)
			}
		case rangeKey:
			start, stop := k.clamp(len(s.slots))
			s.removeWhere(func(i int, sl slot) bool {
				return i >= start && i < stop
			})
		}
	}
}

// removeWhere drops the closed slots the predicate selects, preserving the
// order of everything else.
func (s *Stopwatch) removeWhere(match func(i int, sl slot) bool) {
	kept := s.slots[:0]
	for i, sl := range s.slots {
		if !sl.open && match(i, sl) {
			continue
		}
		kept = append(kept, sl)
	}
	s.slots = kept
}
