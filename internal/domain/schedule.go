package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ErrInvalidSchedule is returned by DaySchedule.Validate for a malformed work day
var ErrInvalidSchedule = errors.New("invalid day schedule")

// Break is a pause inside a work day
type Break struct {
	Start types.TimeString
	End   types.TimeString
}

// DaySchedule is the work window of one weekday with its breaks
type DaySchedule struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Breaks    []Break
}

// WeeklySchedule is an employee's recurring availability indexed by time.Weekday.
// A nil entry means the day is not a work day.
type WeeklySchedule [7]*DaySchedule

// Validate checks start < end, every break inside the window and breaks not overlapping
func (d *DaySchedule) Validate() error {
	start, err := d.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: start: %v", ErrInvalidSchedule, err)
	}
	end, err := d.EndTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: end: %v", ErrInvalidSchedule, err)
	}
	if start >= end {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidSchedule, d.StartTime, d.EndTime)
	}

	type span struct{ from, to int }
	spans := make([]span, 0, len(d.Breaks))
	for _, br := range d.Breaks {
		from, err := br.Start.Minutes()
		if err != nil {
			return fmt.Errorf("%w: break start: %v", ErrInvalidSchedule, err)
		}
		to, err := br.End.Minutes()
		if err != nil {
			return fmt.Errorf("%w: break end: %v", ErrInvalidSchedule, err)
		}
		if from >= to {
			return fmt.Errorf("%w: break %s-%s is empty", ErrInvalidSchedule, br.Start, br.End)
		}
		if from < start || to > end {
			return fmt.Errorf("%w: break %s-%s is outside %s-%s", ErrInvalidSchedule, br.Start, br.End, d.StartTime, d.EndTime)
		}
		spans = append(spans, span{from, to})
	}

	slices.SortFunc(spans, func(a, b span) int { return a.from - b.from })
	for i := 1; i < len(spans); i++ {
		if spans[i].from < spans[i-1].to {
			return fmt.Errorf("%w: breaks overlap", ErrInvalidSchedule)
		}
	}
	return nil
}

// Day returns the schedule for a weekday if it is a valid work day
func (w *WeeklySchedule) Day(weekday time.Weekday) (*DaySchedule, bool) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, false
	}
	day := w[weekday]
	if day == nil || day.Validate() != nil {
		return nil, false
	}
	return day, true
}

// IsWorkDay reports whether the date's weekday has a valid work window
func (w *WeeklySchedule) IsWorkDay(date time.Time) bool {
	_, ok := w.Day(date.Weekday())
	return ok
}

// WorkWindow returns the work window resolved to concrete times on date
func (w *WeeklySchedule) WorkWindow(date time.Time) (Interval, bool) {
	day, ok := w.Day(date.Weekday())
	if !ok {
		return Interval{}, false
	}
	start, err := day.StartTime.On(date)
	if err != nil {
		return Interval{}, false
	}
	end, err := day.EndTime.On(date)
	if err != nil {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// BreaksOn returns the breaks of date ordered by start. Empty for non-work days.
func (w *WeeklySchedule) BreaksOn(date time.Time) []Interval {
	day, ok := w.Day(date.Weekday())
	if !ok {
		return nil
	}
	breaks := make([]Interval, 0, len(day.Breaks))
	for _, br := range day.Breaks {
		start, err := br.Start.On(date)
		if err != nil {
			continue
		}
		end, err := br.End.On(date)
		if err != nil {
			continue
		}
		breaks = append(breaks, Interval{Start: start, End: end})
	}
	slices.SortFunc(breaks, func(a, b Interval) int { return a.Start.Compare(b.Start) })
	return breaks
}
