package stopwatch

import (
	"reflect"
	"runtime"
	"strings"
)

// TimeFunc runs fn as a timed region named after the function itself and
// returns its elapsed seconds. A nil Stopwatch selects the shared instance,
// matching the usual one-liner:
//
//	stopwatch.TimeFunc(nil, rebuildIndex)
func TimeFunc(s *Stopwatch, fn func()) (float64, error) {
	if s == nil {
		s = std
	}
	if err := s.Start(funcName(fn)); err != nil {
		return 0, err
	}
	fn()
	return s.Stop()
}

// funcName resolves a function's qualified name, trimmed of its module
// path. Anonymous functions keep the compiler-assigned funcN suffix, which
// still distinguishes them within a package.
func funcName(fn func()) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "func"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
