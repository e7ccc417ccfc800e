package domain

import (
	"fmt"
	"sort"
	"time"
)

// TimeOfDay represents a clock time in HH:MM form (e.g. "09:30").
// Every stored value must be a member of the session's TimeGrid.
type TimeOfDay string

// NewTimeOfDay parses and validates an HH:MM string
func NewTimeOfDay(s string) (TimeOfDay, error) {
	if _, err := time.Parse(TimeFormat, s); err != nil {
		return "", fmt.Errorf("invalid time %q: %v", s, err)
	}
	return TimeOfDay(s), nil
}

// IsValid returns true if the value is a well-formed HH:MM time
func (t TimeOfDay) IsValid() bool {
	_, err := time.Parse(TimeFormat, string(t))
	return err == nil
}

// Minutes converts the time to minutes since midnight.
// Malformed values return -1 and therefore sort before any valid time.
func (t TimeOfDay) Minutes() int {
	parsed, err := time.Parse(TimeFormat, string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// Before returns true if t is strictly earlier than other
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// AddMinutes returns the time shifted forward by m minutes, capped at 23:59
func (t TimeOfDay) AddMinutes(m int) TimeOfDay {
	total := t.Minutes() + m
	if total < 0 {
		total = 0
	}
	if total >= MinutesPerDay {
		total = MinutesPerDay - 1
	}
	return TimeOfDay(fmt.Sprintf("%02d:%02d", total/60, total%60))
}

// Compare returns -1, 0 or 1 ordering a relative to b by minutes since midnight
func Compare(a, b TimeOfDay) int {
	am, bm := a.Minutes(), b.Minutes()
	switch {
	case am < bm:
		return -1
	case am > bm:
		return 1
	default:
		return 0
	}
}

// TimeGrid is the ordered set of clock times the system accepts as
// boundary values. All components treat the grid as the sole source of
// valid times; nothing synthesizes a time outside it.
type TimeGrid []TimeOfDay

// BuildGrid generates a grid from dayStart up to and including dayEnd
// with a fixed step in minutes. Used as the built-in fallback when the
// scheduling store does not supply a grid.
func BuildGrid(stepMinutes int, dayStart, dayEnd TimeOfDay) TimeGrid {
	if stepMinutes < MinGridStepMinutes || stepMinutes > MaxGridStepMinutes {
		stepMinutes = DefaultGridStepMinutes
	}
	start, end := dayStart.Minutes(), dayEnd.Minutes()
	if start < 0 || end < 0 || start > end {
		start, end = DefaultDayStart.Minutes(), DefaultDayEnd.Minutes()
	}

	grid := make(TimeGrid, 0, (end-start)/stepMinutes+1)
	for m := start; m <= end; m += stepMinutes {
		grid = append(grid, TimeOfDay(fmt.Sprintf("%02d:%02d", m/60, m%60)))
	}
	return grid
}

// NewTimeGrid builds a grid from raw HH:MM strings, dropping malformed
// entries and duplicates and sorting the rest ascending
func NewTimeGrid(raw []string) TimeGrid {
	seen := make(map[TimeOfDay]bool, len(raw))
	grid := make(TimeGrid, 0, len(raw))
	for _, s := range raw {
		t, err := NewTimeOfDay(s)
		if err != nil || seen[t] {
			continue
		}
		seen[t] = true
		grid = append(grid, t)
	}
	sort.Slice(grid, func(i, j int) bool { return grid[i].Before(grid[j]) })
	return grid
}

// Contains reports whether t is a member of the grid
func (g TimeGrid) Contains(t TimeOfDay) bool {
	for _, gt := range g {
		if gt == t {
			return true
		}
	}
	return false
}

// TimesBetween returns the ordered subsequence of grid times within
// [startInclusive, endExclusive). A nil bound means unbounded on that side.
func (g TimeGrid) TimesBetween(startInclusive, endExclusive *TimeOfDay) []TimeOfDay {
	result := make([]TimeOfDay, 0, len(g))
	for _, t := range g {
		if startInclusive != nil && t.Before(*startInclusive) {
			continue
		}
		if endExclusive != nil && !t.Before(*endExclusive) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// Strings returns the grid as raw HH:MM strings for serialization
func (g TimeGrid) Strings() []string {
	out := make([]string, len(g))
	for i, t := range g {
		out[i] = string(t)
	}
	return out
}
