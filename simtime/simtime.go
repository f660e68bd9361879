// Package simtime models simulated instants and durations.
//
// Time in the simulator never touches the wall clock: every instant is
// derived from a configured start time plus a whole number of fixed-Δ
// ticks (spec.md §3, §4.9). SimTime wraps time.Time purely so that
// config-file timestamps ("YYYY-MM-DD HH:MM:SS", spec.md §6) round-trip
// through the same type callers compare and advance.
package simtime

import (
	"fmt"
	"time"
)

const layout = "2006-01-02 15:04:05"

// SimTime is a simulated instant. The zero value is time.Time's zero
// value (January 1, year 1, 00:00:00 UTC).
type SimTime struct {
	t time.Time
}

// Parse reads a "YYYY-MM-DD HH:MM:SS" timestamp as used in scenario
// config files (spec.md §6).
func Parse(s string) (SimTime, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return SimTime{}, fmt.Errorf("parse simtime %q: %w", s, err)
	}
	return SimTime{t: t}, nil
}

// Add returns the instant deltaSeconds after t. deltaSeconds may be
// fractional; negative values are rejected by config validation, not here.
func (t SimTime) Add(deltaSeconds float64) SimTime {
	return SimTime{t: t.t.Add(time.Duration(deltaSeconds * float64(time.Second)))}
}

// Before reports whether t occurs strictly before other.
func (t SimTime) Before(other SimTime) bool {
	return t.t.Before(other.t)
}

// After reports whether t occurs strictly after other.
func (t SimTime) After(other SimTime) bool {
	return t.t.After(other.t)
}

// Equal reports whether t and other denote the same instant.
func (t SimTime) Equal(other SimTime) bool {
	return t.t.Equal(other.t)
}

// String renders t in the same layout Parse accepts.
func (t SimTime) String() string {
	return t.t.Format(layout)
}

// Elapsed returns the number of seconds from a to b (negative if b is
// before a).
func Elapsed(a, b SimTime) float64 {
	return b.t.Sub(a.t).Seconds()
}
