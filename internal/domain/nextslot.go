package domain

// NextAvailableBlock scans consecutive grid-time pairs in ascending
// order and returns the first candidate interval that overlaps no
// existing block. The proposal is guaranteed to pass
// ValidateOpenSchedule when appended to existing. The second return is
// false when the grid is saturated and no block can be added.
func NextAvailableBlock(existing []TimeBlock, grid TimeGrid) (TimeBlock, bool) {
	for i := 0; i+1 < len(grid); i++ {
		candidate := TimeBlock{Start: grid[i], End: grid[i+1]}

		conflict := false
		for _, b := range existing {
			if candidate.Overlaps(b) {
				conflict = true
				break
			}
		}
		if !conflict {
			return candidate, true
		}
	}
	return TimeBlock{}, false
}

// NextAvailableSlot returns the first grid time not already present in
// existing, or false when every grid time is taken
func NextAvailableSlot(existing []TimeOfDay, grid TimeGrid) (TimeOfDay, bool) {
	taken := make(map[TimeOfDay]bool, len(existing))
	for _, t := range existing {
		taken[t] = true
	}
	for _, t := range grid {
		if !taken[t] {
			return t, true
		}
	}
	return "", false
}
