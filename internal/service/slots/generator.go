package slots

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Calendar источник рабочего окна сотрудника на дату
type Calendar interface {
	WorkWindow(date time.Time) (domain.Interval, bool)
}

// Generate генерирует кандидатов в слоты на дату.
// Слоты идут от начала рабочего окна с шагом stepMinutes, каждый длиной durationMinutes,
// и не выходят за конец окна. Последовательность ленивая и может перебираться повторно.
func Generate(calendar Calendar, employeeID int64, date time.Time, durationMinutes, stepMinutes int) iter.Seq[domain.TimeSlot] {
	return func(yield func(domain.TimeSlot) bool) {
		if durationMinutes <= 0 || stepMinutes <= 0 {
			return
		}

		// Нерабочий день или некорректное расписание - слотов нет
		window, ok := calendar.WorkWindow(date)
		if !ok {
			return
		}

		duration := time.Duration(durationMinutes) * time.Minute
		step := time.Duration(stepMinutes) * time.Minute

		for cursor := window.Start; !cursor.Add(duration).After(window.End); cursor = cursor.Add(step) {
			slot := domain.TimeSlot{
				StartTime:  cursor,
				EndTime:    cursor.Add(duration),
				EmployeeID: employeeID,
			}
			if !yield(slot) {
				return
			}
		}
	}
}
