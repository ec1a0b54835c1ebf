package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Service модель услуги из каталога
type Service struct {
	ID              int64   `json:"id" toml:"id"`
	Name            string  `json:"name" toml:"name"`
	DurationMinutes int     `json:"durationMinutes" toml:"duration_minutes"`
	Price           float64 `json:"price" toml:"price"`
	IsActive        bool    `json:"isActive" toml:"is_active"`
}

// Employee модель сотрудника из справочника
type Employee struct {
	ID              int64                   `json:"id" toml:"id"`
	Name            string                  `json:"name" toml:"name"`
	IsActive        bool                    `json:"isActive" toml:"is_active"`
	Specializations []string                `json:"specializations" toml:"specializations"`
	Schedule        map[string]*DaySchedule `json:"schedule" toml:"schedule"` // ключ - день недели: "monday" ... "sunday"
}

// DaySchedule рабочее окно дня недели
type DaySchedule struct {
	StartTime string  `json:"startTime" toml:"start_time"` // "09:00"
	EndTime   string  `json:"endTime" toml:"end_time"`     // "18:00"
	Breaks    []Break `json:"breaks" toml:"breaks"`
}

// Break перерыв внутри рабочего дня
type Break struct {
	Start string `json:"start" toml:"start"`
	End   string `json:"end" toml:"end"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ToDomain конвертирует услугу в доменную модель
func (s *Service) ToDomain() (*domain.Service, error) {
	if s.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service id=%d has non-positive duration %d", ErrInvalidResponse, s.ID, s.DurationMinutes)
	}
	return &domain.Service{
		ID:              s.ID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
	}, nil
}

// ToDomain конвертирует сотрудника в доменную модель.
// Некорректное расписание дня не является ошибкой: календарь считает такой день нерабочим.
func (e *Employee) ToDomain() (*domain.Employee, error) {
	employee := &domain.Employee{
		ID:              e.ID,
		Name:            e.Name,
		IsActive:        e.IsActive,
		Specializations: append([]string(nil), e.Specializations...),
	}

	for name, day := range e.Schedule {
		weekday, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: employee id=%d has unknown weekday %q", ErrInvalidResponse, e.ID, name)
		}
		if day == nil {
			continue
		}

		breaks := make([]domain.Break, 0, len(day.Breaks))
		for _, br := range day.Breaks {
			breaks = append(breaks, domain.Break{
				Start: types.TimeString(br.Start),
				End:   types.TimeString(br.End),
			})
		}
		employee.Schedule[weekday] = &domain.DaySchedule{
			StartTime: types.TimeString(day.StartTime),
			EndTime:   types.TimeString(day.EndTime),
			Breaks:    breaks,
		}
	}

	return employee, nil
}
