package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTime is returned when a value is not a well-formed HH:MM time
	ErrInvalidTime = errors.New("invalid time value")

	// ErrInvertedBlock is returned when a block does not start before it ends
	ErrInvertedBlock = errors.New("block start must be before block end")

	// ErrOverlappingBlocks is returned when two blocks of one day intersect
	ErrOverlappingBlocks = errors.New("blocks overlap")

	// ErrDuplicateSlot is returned when a day contains the same slot twice
	ErrDuplicateSlot = errors.New("duplicate time slot")

	// ErrTimeOffGrid is returned when a time is not a member of the allowed grid
	ErrTimeOffGrid = errors.New("time is not on the allowed grid")
)

// ValidateOpenSchedule checks a day's open-schedule blocks: every block
// must start strictly before it ends, and no two blocks may overlap.
// Overlap uses half-open [start, end) semantics, so a block ending
// exactly when the next starts is legal.
//
// The function is pure and is the single source of truth for "is this
// day legal to submit": it gates local edits and runs again before
// every serialization to the store.
func ValidateOpenSchedule(blocks []TimeBlock) error {
	for _, b := range blocks {
		if !b.Start.IsValid() || !b.End.IsValid() {
			return fmt.Errorf("%w: %s-%s", ErrInvalidTime, b.Start, b.End)
		}
		if b.Start.Minutes() >= b.End.Minutes() {
			return fmt.Errorf("%w: %s-%s", ErrInvertedBlock, b.Start, b.End)
		}
	}

	sorted := append([]TimeBlock(nil), blocks...)
	SortBlocks(sorted)

	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i].End.Minutes() > sorted[i+1].Start.Minutes() {
			return fmt.Errorf("%w: %s-%s and %s-%s",
				ErrOverlappingBlocks,
				sorted[i].Start, sorted[i].End,
				sorted[i+1].Start, sorted[i+1].End)
		}
	}
	return nil
}

// ValidateTimeSlots checks a day's discrete slots: no duplicates, and
// every slot must be a member of the allowed grid
func ValidateTimeSlots(times []TimeOfDay, grid TimeGrid) error {
	seen := make(map[TimeOfDay]bool, len(times))
	for _, t := range times {
		if !t.IsValid() {
			return fmt.Errorf("%w: %s", ErrInvalidTime, t)
		}
		if seen[t] {
			return fmt.Errorf("%w: %s", ErrDuplicateSlot, t)
		}
		seen[t] = true
		if !grid.Contains(t) {
			return fmt.Errorf("%w: %s", ErrTimeOffGrid, t)
		}
	}
	return nil
}

// ValidateDay runs both checks on one day schedule. Both lists are
// validated regardless of the active view mode, since the inactive list
// is retained and serialized too.
func ValidateDay(day DaySchedule, grid TimeGrid) error {
	if err := ValidateOpenSchedule(day.OpenSchedule); err != nil {
		return err
	}
	return ValidateTimeSlots(SlotTimes(day.TimeSlots), grid)
}
