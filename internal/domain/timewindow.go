package domain

import (
	"time"
)

// DayOfWeek is a lowercase English weekday name as stored with opening hours
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

var weekdays = [...]DayOfWeek{
	time.Sunday:    Sunday,
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
}

// DayOfWeekOf returns the weekday of t in t's own location
func DayOfWeekOf(t time.Time) DayOfWeek {
	return weekdays[t.Weekday()]
}

// IsValid reports whether d is one of the seven weekday names
func (d DayOfWeek) IsValid() bool {
	for _, w := range weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// IntervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd) share any instant.
// Touching intervals (aEnd == bStart) do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// CivilDate strips the clock from t, keeping the calendar day as seen in t's location
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MinutesOfDay returns minutes since local midnight, rounding partial minutes down
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// MinutesOfDayCeil returns minutes since local midnight, rounding partial minutes up
func MinutesOfDayCeil(t time.Time) int {
	m := MinutesOfDay(t)
	if t.Second() > 0 || t.Nanosecond() > 0 {
		m++
	}
	return m
}

// LocalWindow is a booking range projected onto a club's wall clock
type LocalWindow struct {
	Date     time.Time
	Day      DayOfWeek
	StartMin int
	EndMin   int
}

// ToLocalWindow converts [start, end) into the club's local calendar day and minutes.
// ok is false if the range does not start and end on the same local day.
func ToLocalWindow(start, end time.Time, loc *time.Location) (LocalWindow, bool) {
	if loc == nil {
		loc = time.UTC
	}
	ls, le := start.In(loc), end.In(loc)
	if !CivilDate(ls).Equal(CivilDate(le)) {
		return LocalWindow{}, false
	}
	return LocalWindow{
		Date:     CivilDate(ls),
		Day:      DayOfWeekOf(ls),
		StartMin: MinutesOfDay(ls),
		EndMin:   MinutesOfDayCeil(le),
	}, true
}
