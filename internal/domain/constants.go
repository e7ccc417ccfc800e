package domain

// Default time grid values, used when the scheduling store does not supply a grid
const (
	DefaultGridStepMinutes = 30
	DefaultDayStart        = TimeOfDay("08:00")
	DefaultDayEnd          = TimeOfDay("18:00")
)

// DefaultSlotDurationMinutes is the slot length in timeSlots mode.
// A date override's end in that mode is always Start plus this duration.
const DefaultSlotDurationMinutes = 30

// Business validation constants
const (
	MinGridStepMinutes = 5
	MaxGridStepMinutes = 240
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// MinutesPerDay is the exclusive upper bound for minutes-since-midnight values
const MinutesPerDay = 24 * 60
