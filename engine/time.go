// Package engine implements the discrete-event scheduling core: a monotonic
// virtual-time clock, an AVL-keyed event queue, event/record pooling, and the
// dispatch loop that drives every simulation object registered with a
// Simulator.
package engine

import "github.com/iti/evt/vrtime"

// Time is a virtual-time value: a signed count of nanosecond ticks, never
// negative once observed from a running Simulator. It shares the nanosecond
// convention vrtime.Time uses for every Schedule call so that durations
// computed here compose cleanly with code built against vrtime.
type Time int64

// SecondsToTime mirrors vrtime.SecondsToTime's rounding so configuration
// values expressed in seconds (load points, warm-up durations) land on the
// same tick grid vrtime-based code would produce.
func SecondsToTime(s float64) Time {
	return Time(vrtime.SecondsToTime(s).Ticks())
}

// Seconds converts a Time back to fractional seconds, for reporting.
func (t Time) Seconds() float64 {
	return float64(t) / 1e9
}

// Max returns the larger of two Times.
func Max(a, b Time) Time {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of two Times.
func Min(a, b Time) Time {
	if a < b {
		return a
	}
	return b
}
