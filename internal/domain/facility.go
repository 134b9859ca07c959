package domain

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/pkg/types"
)

// FacilityType groups facilities that share opening hours, closures and booking rules
type FacilityType struct {
	ID                     string
	ClubID                 string
	Name                   string
	Description            *string
	BookingIntervalMinutes int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Facility is a bookable resource, e.g. a single court
type Facility struct {
	ID             string
	ClubID         string
	FacilityTypeID string
	Name           string
	Capacity       int
	IsActive       bool

	// Type is populated when the facility is loaded together with its type
	Type *FacilityType

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BelongsTo returns true if the facility is part of clubID
func (f *Facility) BelongsTo(clubID string) bool {
	return f.ClubID == clubID
}

// OpeningHours is one open interval on a weekday, scoped to a facility type or a single facility
type OpeningHours struct {
	ID             string
	FacilityTypeID *string
	FacilityID     *string
	DayOfWeek      DayOfWeek
	StartTime      types.TimeString
	EndTime        types.TimeString
}

// Contains returns true if [startMin, endMin] fits inside the row
func (h OpeningHours) Contains(startMin, endMin int) (bool, error) {
	open, err := h.StartTime.Minutes()
	if err != nil {
		return false, err
	}
	closeAt, err := h.EndTime.Minutes()
	if err != nil {
		return false, err
	}
	return startMin >= open && endMin <= closeAt, nil
}

// Closure is an inclusive range of calendar days when facilities are unavailable
type Closure struct {
	ID             string
	ClubID         string
	FacilityTypeID *string
	FacilityID     *string
	StartDate      time.Time
	EndDate        time.Time
	Reason         *string
	CreatedAt      time.Time
}

// Covers returns true if the calendar day of date falls inside the closure, bounds included
func (c Closure) Covers(date time.Time) bool {
	day := CivilDate(date)
	return !day.Before(CivilDate(c.StartDate)) && !day.After(CivilDate(c.EndDate))
}

// ClosureFilter selects closures of a club that apply to a facility or its type
type ClosureFilter struct {
	ClubID         string
	FacilityID     string
	FacilityTypeID string
	Date           *time.Time // nil = без фильтра по дате
}
