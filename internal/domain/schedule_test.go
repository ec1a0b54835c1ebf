package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdaySchedule(day *DaySchedule) WeeklySchedule {
	var w WeeklySchedule
	for _, wd := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday} {
		w[wd] = day
	}
	return w
}

func TestWeeklySchedule_WorkWindow(t *testing.T) {
	w := weekdaySchedule(&DaySchedule{
		StartTime: "09:00",
		EndTime:   "18:00",
		Breaks:    []Break{{Start: "13:00", End: "14:00"}},
	})

	wednesday := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	window, ok := w.WorkWindow(wednesday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2025, 10, 15, 18, 0, 0, 0, time.UTC), window.End)
	assert.True(t, w.IsWorkDay(wednesday))

	sunday := time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)
	_, ok = w.WorkWindow(sunday)
	assert.False(t, ok)
	assert.False(t, w.IsWorkDay(sunday))
	assert.Empty(t, w.BreaksOn(sunday))
}

func TestWeeklySchedule_BreaksOnSorted(t *testing.T) {
	w := weekdaySchedule(&DaySchedule{
		StartTime: "08:00",
		EndTime:   "20:00",
		Breaks: []Break{
			{Start: "16:00", End: "16:15"},
			{Start: "12:00", End: "13:00"},
		},
	})

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	breaks := w.BreaksOn(monday)
	require.Len(t, breaks, 2)
	assert.Equal(t, 12, breaks[0].Start.Hour())
	assert.Equal(t, 16, breaks[1].Start.Hour())
}

func TestWeeklySchedule_MalformedDayIsNotWorkDay(t *testing.T) {
	tests := []struct {
		name string
		day  *DaySchedule
	}{
		{name: "start after end", day: &DaySchedule{StartTime: "18:00", EndTime: "09:00"}},
		{name: "start equals end", day: &DaySchedule{StartTime: "09:00", EndTime: "09:00"}},
		{name: "break outside window", day: &DaySchedule{StartTime: "09:00", EndTime: "18:00", Breaks: []Break{{Start: "17:30", End: "18:30"}}}},
		{name: "empty break", day: &DaySchedule{StartTime: "09:00", EndTime: "18:00", Breaks: []Break{{Start: "13:00", End: "13:00"}}}},
		{name: "overlapping breaks", day: &DaySchedule{StartTime: "09:00", EndTime: "18:00", Breaks: []Break{{Start: "12:00", End: "13:00"}, {Start: "12:30", End: "13:30"}}}},
		{name: "unparsable time", day: &DaySchedule{StartTime: "9am", EndTime: "18:00"}},
	}

	monday := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := weekdaySchedule(tt.day)
			assert.ErrorIs(t, tt.day.Validate(), ErrInvalidSchedule)
			assert.False(t, w.IsWorkDay(monday))
			_, ok := w.WorkWindow(monday)
			assert.False(t, ok)
		})
	}
}

func TestDaySchedule_ValidateBoundaryBreaks(t *testing.T) {
	day := &DaySchedule{
		StartTime: "09:00",
		EndTime:   "18:00",
		Breaks: []Break{
			{Start: "09:00", End: "09:30"},
			{Start: "09:30", End: "10:00"},
			{Start: "17:30", End: "18:00"},
		},
	}
	assert.NoError(t, day.Validate())
}

func TestInterval_Overlaps(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 10, 15, h, m, 0, 0, time.UTC) }
	slot := Interval{Start: at(11, 30), End: at(12, 0)}

	assert.True(t, slot.Overlaps(Interval{Start: at(11, 20), End: at(11, 40)}))
	assert.True(t, slot.Overlaps(Interval{Start: at(11, 0), End: at(13, 0)}))
	assert.False(t, slot.Overlaps(Interval{Start: at(11, 0), End: at(11, 30)}))
	assert.False(t, slot.Overlaps(Interval{Start: at(12, 0), End: at(12, 30)}))

	window := Interval{Start: at(9, 0), End: at(18, 0)}
	assert.True(t, window.Contains(slot))
	assert.False(t, window.Contains(Interval{Start: at(17, 30), End: at(18, 30)}))
}
