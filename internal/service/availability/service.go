package availability

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
)

// Service вычисляет доступность сотрудника: календарь → генератор → фильтр конфликтов
type Service struct {
	bookingRepo BookingRepository
	stepMinutes int
	logger      Logger
}

// NewService создает новый экземпляр сервиса доступности.
// stepMinutes <= 0 заменяется на domain.DefaultSlotStepMinutes
func NewService(bookingRepo BookingRepository, stepMinutes int, logger Logger) *Service {
	if stepMinutes <= 0 {
		stepMinutes = domain.DefaultSlotStepMinutes
	}
	return &Service{
		bookingRepo: bookingRepo,
		stepMinutes: stepMinutes,
		logger:      logger,
	}
}

// StepMinutes возвращает шаг генерации слотов
func (s *Service) StepMinutes() int {
	return s.stepMinutes
}

// AvailableSlots возвращает свободные слоты сотрудника на дату для услуги длительностью durationMinutes.
// Дата интерпретируется в своей локации; пустой результат для нерабочего дня не является ошибкой.
func (s *Service) AvailableSlots(ctx context.Context, employee *domain.Employee, durationMinutes int, date time.Time) ([]domain.TimeSlot, error) {
	if employee == nil || durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: employee and positive duration are required", ErrInvalidInput)
	}

	// 1. Рабочее окно; в нерабочий день бронирования не запрашиваем
	calendar := &employee.Schedule
	if !calendar.IsWorkDay(date) {
		s.logger.Info("AvailableSlots: employee=%d does not work on %s", employee.ID, date.Format(domain.DateFormat))
		return []domain.TimeSlot{}, nil
	}

	// 2. Занятые интервалы сотрудника за этот день
	occupancies, err := s.occupancies(ctx, employee.ID, date)
	if err != nil {
		return nil, err
	}

	// 3. Генерация кандидатов и фильтрация по перерывам и бронированиям
	candidates := slots.Generate(calendar, employee.ID, date, durationMinutes, s.stepMinutes)
	result := slices.Collect(slots.Filter(candidates, calendar.BreaksOn(date), occupancies))
	if result == nil {
		result = []domain.TimeSlot{}
	}

	s.logger.Info("AvailableSlots: employee=%d, date=%s, duration=%d: %d free slots",
		employee.ID, date.Format(domain.DateFormat), durationMinutes, len(result))
	return result, nil
}

// CheckInterval проверяет, что интервал можно забронировать у сотрудника:
// рабочий день, интервал внутри рабочего окна, без пересечений с перерывами и занятыми интервалами.
// Вызывается под блокировкой сотрудника перед вставкой бронирования.
func (s *Service) CheckInterval(ctx context.Context, employee *domain.Employee, interval domain.Interval) error {
	if employee == nil || !interval.IsValid() {
		return fmt.Errorf("%w: interval start must be before end", ErrInvalidInput)
	}

	date := interval.Start
	calendar := &employee.Schedule

	// 1. Рабочее окно
	window, ok := calendar.WorkWindow(date)
	if !ok {
		s.logger.Warn("CheckInterval: employee=%d does not work on %s", employee.ID, date.Format(domain.DateFormat))
		return fmt.Errorf("%w: %s is not a work day", ErrSlotUnavailable, date.Format(domain.DateFormat))
	}
	if !window.Contains(interval) {
		s.logger.Warn("CheckInterval: interval %s-%s is outside work window of employee=%d",
			interval.Start.Format(domain.TimeFormat), interval.End.Format(domain.TimeFormat), employee.ID)
		return fmt.Errorf("%w: outside work window", ErrSlotUnavailable)
	}

	// 2. Перерывы
	for _, br := range calendar.BreaksOn(date) {
		if interval.Overlaps(br) {
			s.logger.Warn("CheckInterval: interval %s-%s overlaps a break of employee=%d",
				interval.Start.Format(domain.TimeFormat), interval.End.Format(domain.TimeFormat), employee.ID)
			return fmt.Errorf("%w: overlaps a break", ErrSlotUnavailable)
		}
	}

	// 3. Занятые интервалы
	occupancies, err := s.occupancies(ctx, employee.ID, date)
	if err != nil {
		return err
	}
	for _, occupied := range occupancies {
		if interval.Overlaps(occupied) {
			s.logger.Warn("CheckInterval: interval %s-%s overlaps an existing booking of employee=%d",
				interval.Start.Format(domain.TimeFormat), interval.End.Format(domain.TimeFormat), employee.ID)
			return fmt.Errorf("%w: overlaps an existing booking", ErrSlotUnavailable)
		}
	}

	return nil
}

// occupancies возвращает занятые интервалы сотрудника в пределах календарного дня date
func (s *Service) occupancies(ctx context.Context, employeeID int64, date time.Time) ([]domain.Interval, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := s.bookingRepo.GetByEmployeeAndDateRange(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("AvailableSlots: failed to get bookings for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}
	return slots.Occupancies(bookings), nil
}
