package stopwatch

import "regexp"

// Stat is one summary value in both units.
type Stat struct {
	Seconds float64
	Minutes float64
}

// Stats summarizes a subset of the completed regions. Count is the number
// of regions summarized; when it is zero the subset was empty and every
// other field is zero. An empty subset is a normal result, not an error: a
// mistyped filter should not abort introspection.
type Stats struct {
	Count int
	Total Stat
	Min   Stat
	Max   Stat
	Avg   Stat
}

// GetStats summarizes the completed regions matching the given label
// filters, or all of them when no filter is given. An alphanumeric filter
// matches as a word-bounded substring of each region label, so "load"
// matches "load config" but not "preload"; any other filter matches by
// exact equality. Multiple filters select the union of their matches.
func (s *Stopwatch) GetStats(labels ...string) Stats {
	var matchers []func(string) bool
	for _, label := range labels {
		matchers = append(matchers, labelMatcher(label))
	}

	stats := Stats{}
	for _, sl := range s.slots {
		if sl.open || !anyMatch(matchers, sl.sample.Label) {
			continue
		}
		sec, min := sl.sample.Seconds(), sl.sample.Minutes()
		if stats.Count == 0 {
			stats.Min = Stat{Seconds: sec, Minutes: min}
			stats.Max = Stat{Seconds: sec, Minutes: min}
		}
		if sec < stats.Min.Seconds {
			stats.Min = Stat{Seconds: sec, Minutes: min}
		}
		if sec > stats.Max.Seconds {
			stats.Max = Stat{Seconds: sec, Minutes: min}
		}
		stats.Total.Seconds += sec
		stats.Total.Minutes += min
		stats.Count++
	}
	if stats.Count > 0 {
		n := float64(stats.Count)
		stats.Avg = Stat{
			Seconds: stats.Total.Seconds / n,
			Minutes: stats.Total.Minutes / n,
		}
	}
	return stats
}

var wordRE = regexp.MustCompile(`^\w+$`)

// labelMatcher builds the match predicate for one filter: word-bounded
// substring search for alphanumeric filters, where \b is well defined, and
// exact equality for everything else.
func labelMatcher(filter string) func(string) bool {
	if wordRE.MatchString(filter) {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(filter) + `\b`)
		return re.MatchString
	}
	return func(label string) bool {
		return label == filter
	}
}

// anyMatch reports whether any matcher accepts the label. No matchers means
// no filtering.
func anyMatch(matchers []func(string) bool, label string) bool {
	if len(matchers) == 0 {
		return true
	}
	for _, m := range matchers {
		if m(label) {
			return true
		}
	}
	return false
}
