package slots

import (
	"iter"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Filter оставляет только кандидатов, не пересекающихся ни с перерывами, ни с занятыми интервалами.
// Пересечение полуоткрытое: слот, который заканчивается ровно в начале перерыва, свободен.
//
// Примеры:
// - Слот 11:30-12:00, бронирование 11:20-11:40 → пересечение
// - Слот 11:30-12:00, бронирование 11:00-11:30 → нет пересечения (граничат)
// - Слот 11:30-12:00, бронирование 12:00-12:30 → нет пересечения (граничат)
func Filter(candidates iter.Seq[domain.TimeSlot], breaks, occupancies []domain.Interval) iter.Seq[domain.TimeSlot] {
	return func(yield func(domain.TimeSlot) bool) {
		for slot := range candidates {
			if overlapsAny(slot.Interval(), breaks) || overlapsAny(slot.Interval(), occupancies) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// Occupancies возвращает интервалы бронирований, которые занимают календарь сотрудника
func Occupancies(bookings []*domain.Booking) []domain.Interval {
	intervals := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsOccupying() {
			continue
		}
		intervals = append(intervals, b.Interval())
	}
	return intervals
}

func overlapsAny(slot domain.Interval, intervals []domain.Interval) bool {
	for _, other := range intervals {
		if slot.Overlaps(other) {
			return true
		}
	}
	return false
}
