package domain

import "sort"

// ViewMode selects how availability is displayed and edited:
// contiguous open-schedule intervals or discrete bookable slots.
// The mode is process-wide, not per-inspector.
type ViewMode string

const (
	ViewModeOpenSchedule ViewMode = "openSchedule"
	ViewModeTimeSlots    ViewMode = "timeSlots"
)

// IsValid returns true for a known view mode
func (m ViewMode) IsValid() bool {
	return m == ViewModeOpenSchedule || m == ViewModeTimeSlots
}

// DayKey identifies a weekday in the weekly availability map
type DayKey string

const (
	DayMonday    DayKey = "monday"
	DayTuesday   DayKey = "tuesday"
	DayWednesday DayKey = "wednesday"
	DayThursday  DayKey = "thursday"
	DayFriday    DayKey = "friday"
	DaySaturday  DayKey = "saturday"
	DaySunday    DayKey = "sunday"
)

// WeekDays is the canonical weekday order used for iteration and serialization
var WeekDays = []DayKey{
	DayMonday, DayTuesday, DayWednesday, DayThursday,
	DayFriday, DaySaturday, DaySunday,
}

// IsValid returns true if the key names one of the seven weekdays
func (k DayKey) IsValid() bool {
	for _, d := range WeekDays {
		if d == k {
			return true
		}
	}
	return false
}

// TimeBlock is a contiguous open-schedule interval with half-open
// [Start, End) semantics. Invariant: Start < End strictly.
type TimeBlock struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Overlaps reports whether two blocks share any time. Blocks that only
// touch at a boundary (one ends exactly where the other starts) do not overlap.
func (b TimeBlock) Overlaps(other TimeBlock) bool {
	return b.Start.Minutes() < other.End.Minutes() && b.End.Minutes() > other.Start.Minutes()
}

// TimeSlot is a single bookable instant, used in the timeSlots view mode
type TimeSlot struct {
	Time TimeOfDay
}

// DaySchedule holds both representations of one weekday's availability.
// Only the list matching the active ViewMode is displayed; the inactive
// list is retained so toggling the mode back does not lose prior edits.
// An empty DaySchedule means the inspector is unavailable that weekday.
type DaySchedule struct {
	OpenSchedule []TimeBlock
	TimeSlots    []TimeSlot
}

// IsEmpty returns true if the day has neither blocks nor slots
func (d DaySchedule) IsEmpty() bool {
	return len(d.OpenSchedule) == 0 && len(d.TimeSlots) == 0
}

// Clone returns a deep copy of the day schedule
func (d DaySchedule) Clone() DaySchedule {
	out := DaySchedule{}
	if d.OpenSchedule != nil {
		out.OpenSchedule = append([]TimeBlock(nil), d.OpenSchedule...)
	}
	if d.TimeSlots != nil {
		out.TimeSlots = append([]TimeSlot(nil), d.TimeSlots...)
	}
	return out
}

// SortBlocks orders blocks ascending by start time
func SortBlocks(blocks []TimeBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Start.Before(blocks[j].Start)
	})
}

// SortSlots orders slots ascending by time
func SortSlots(slots []TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Time.Before(slots[j].Time)
	})
}

// SlotTimes extracts the raw times from a slot list
func SlotTimes(slots []TimeSlot) []TimeOfDay {
	times := make([]TimeOfDay, len(slots))
	for i, s := range slots {
		times[i] = s.Time
	}
	return times
}

// SyncStatus is the lifecycle state of an inspector's most recent save
type SyncStatus string

const (
	SyncIdle   SyncStatus = "idle"
	SyncSaving SyncStatus = "saving"
	SyncSaved  SyncStatus = "saved"
	SyncError  SyncStatus = "error"
)

// SyncState reflects the most recent synchronization outcome for one
// inspector. Ephemeral, for UI display only; never persisted.
type SyncState struct {
	Status  SyncStatus
	Message string
}
