package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusBooked    BookingStatus = "booked"
	StatusAttended  BookingStatus = "attended"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// IsValid reports whether the status is one of the known values
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusBooked, StatusAttended, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// BookingType represents what the reservation is for
type BookingType string

const (
	BookingTypeUser        BookingType = "user_booking"
	BookingTypeCoaching    BookingType = "coaching_session"
	BookingTypeMaintenance BookingType = "maintenance"
	BookingTypeBlock       BookingType = "block"
)

// IsValid reports whether the type is one of the known values
func (t BookingType) IsValid() bool {
	switch t {
	case BookingTypeUser, BookingTypeCoaching, BookingTypeMaintenance, BookingTypeBlock:
		return true
	}
	return false
}

// Booking is a reservation of one facility for a half-open time range [StartTime, EndTime)
type Booking struct {
	ID         string
	ClubID     string
	FacilityID string
	UserID     string
	StartTime  time.Time
	EndTime    time.Time
	Status     BookingStatus
	Type       BookingType
	CheckInAt  *time.Time

	// CancelledAt is set when the booking is cancelled
	CancelledAt *time.Time

	Participants []Participant

	// Requester is populated only by list queries
	Requester *UserInfo

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the booking occupies its facility.
// Only booked reservations block; attended, cancelled and no_show never do.
func (b *Booking) IsBlocking() bool {
	return b.Status == StatusBooked
}

// IsOwnedBy returns true if userID created the booking
func (b *Booking) IsOwnedBy(userID string) bool {
	return b.UserID == userID
}

// Duration returns the booked length
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// GuestCount returns the number of guest participants
func (b *Booking) GuestCount() int {
	n := 0
	for _, p := range b.Participants {
		if p.IsGuest {
			n++
		}
	}
	return n
}

// UserInfo is the public profile of the booking requester
type UserInfo struct {
	ID    string
	Name  *string
	Email *string
}

// BookingsFilter selects bookings of a club overlapping [Start, End)
type BookingsFilter struct {
	ClubID      string
	Start       time.Time
	End         time.Time
	FacilityIDs []string // пусто = все площадки клуба
}

// UserBookingsFilter selects bookings made by one user that end after From
type UserBookingsFilter struct {
	UserID string
	From   time.Time
	Status *BookingStatus
}
