package domain

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/pkg/types"
)

// AvailableSlot is one booking-interval step inside a facility's opening hours on a given day
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Available       bool

	// Start and End are the absolute instants of the slot in the club's timezone
	Start time.Time
	End   time.Time
}

// IsTakenBy returns true if booking b occupies any part of the slot
func (s *AvailableSlot) IsTakenBy(b *Booking) bool {
	return b.IsBlocking() && IntervalsOverlap(s.Start, s.End, b.StartTime, b.EndTime)
}
