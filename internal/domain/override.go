package domain

import (
	"sort"
	"time"
)

// DateOverride is a single-date exception that supersedes the weekly
// schedule for that exact calendar date. In the timeSlots view mode End
// is derived from Start plus the slot duration, never edited directly.
type DateOverride struct {
	Date  time.Time // date only, normalized to midnight
	Start TimeOfDay
	End   TimeOfDay
}

// SameKey reports whether the override targets the given date and start
// time, the pair that identifies an override within an inspector's list
func (o DateOverride) SameKey(date time.Time, start TimeOfDay) bool {
	return o.Start == start && isSameDay(o.Date, date)
}

// SortOverrides orders overrides by (date, start)
func SortOverrides(overrides []DateOverride) {
	sort.SliceStable(overrides, func(i, j int) bool {
		if !overrides[i].Date.Equal(overrides[j].Date) {
			return overrides[i].Date.Before(overrides[j].Date)
		}
		return overrides[i].Start.Before(overrides[j].Start)
	})
}

// IsDateInPast reports whether date falls strictly before today.
// Time-of-day is ignored: an override for today is never "in the past".
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// isSameDay reports whether two timestamps fall on the same calendar day
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// InspectorAvailability is one inspector's editable availability record:
// a weekly map that always carries all seven day keys plus the list of
// date-specific exceptions. The record itself is created at session load
// and never deleted here; only Days and DateOverrides mutate.
type InspectorAvailability struct {
	InspectorID   string
	InspectorName string
	Days          map[DayKey]DaySchedule
	DateOverrides []DateOverride
}

// NewInspectorAvailability creates an empty record with all seven days present
func NewInspectorAvailability(id, name string) *InspectorAvailability {
	a := &InspectorAvailability{
		InspectorID:   id,
		InspectorName: name,
		Days:          make(map[DayKey]DaySchedule, len(WeekDays)),
	}
	a.EnsureWeek()
	return a
}

// EnsureWeek guarantees every weekday key is present in the Days map
func (a *InspectorAvailability) EnsureWeek() {
	if a.Days == nil {
		a.Days = make(map[DayKey]DaySchedule, len(WeekDays))
	}
	for _, day := range WeekDays {
		if _, ok := a.Days[day]; !ok {
			a.Days[day] = DaySchedule{}
		}
	}
}

// Clone returns a deep copy of the record
func (a *InspectorAvailability) Clone() *InspectorAvailability {
	out := &InspectorAvailability{
		InspectorID:   a.InspectorID,
		InspectorName: a.InspectorName,
		Days:          make(map[DayKey]DaySchedule, len(a.Days)),
	}
	for day, sched := range a.Days {
		out.Days[day] = sched.Clone()
	}
	if a.DateOverrides != nil {
		out.DateOverrides = append([]DateOverride(nil), a.DateOverrides...)
	}
	return out
}
