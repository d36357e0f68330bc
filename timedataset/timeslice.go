package timedataset

import (
	"slices"
	"time"
)

// TimeSlice is an ordered slice of observation timestamps
type TimeSlice []time.Time

// StartTime returns the first timestamp or the zero time when empty
func (t TimeSlice) StartTime() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[0]
}

// EndTime returns the last timestamp or the zero time when empty
func (t TimeSlice) EndTime() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[len(t)-1]
}

// EstimateFreq returns the most common spacing between consecutive points, preferring the
// smaller spacing on ties.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	deltas := make([]time.Duration, len(t)-1)
	for i := range deltas {
		deltas[i] = t[i+1].Sub(t[i])
	}
	slices.Sort(deltas)

	// ascending runs so only a strictly longer run replaces the best
	best, bestRun := deltas[0], 0
	for lo := 0; lo < len(deltas); {
		hi := lo
		for hi < len(deltas) && deltas[hi] == deltas[lo] {
			hi++
		}
		if hi-lo > bestRun {
			best, bestRun = deltas[lo], hi-lo
		}
		lo = hi
	}
	return best, nil
}

// Horizon generates n time points after the end of the slice spaced by interval
func (t TimeSlice) Horizon(n int, interval time.Duration) []time.Time {
	if n <= 0 {
		return nil
	}
	lastTime := t.EndTime()
	horizon := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		horizon = append(horizon, lastTime.Add(time.Duration(i+1)*interval))
	}
	return horizon
}
