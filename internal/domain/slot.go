package domain

import "time"

// Interval is a half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
// Touching endpoints (one ends exactly when the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies entirely within i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// IsValid reports whether Start < End
func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// TimeSlot is one bookable opportunity for a service with a specific employee.
// Derived on every availability query, never stored.
type TimeSlot struct {
	StartTime  time.Time
	EndTime    time.Time
	EmployeeID int64
}

// Interval returns the slot as a half-open interval
func (s TimeSlot) Interval() Interval {
	return Interval{Start: s.StartTime, End: s.EndTime}
}
