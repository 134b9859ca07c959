package domain

// Facility type defaults
const (
	DefaultBookingIntervalMinutes = 30
	MinBookingIntervalMinutes     = 15
	DefaultFacilityCapacity       = 1
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Limits on request payloads
const (
	MaxParticipants  = 50
	MaxClosureReason = 500
	MaxListRangeDays = 93
)
