package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Catalog интерфейс справочника услуг и сотрудников
type Catalog interface {
	GetService(ctx context.Context, serviceID int64) (*domain.Service, error)
	GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error)
	ListActiveEmployees(ctx context.Context) ([]*domain.Employee, error)
}

// AvailabilityService интерфейс сервиса доступности сотрудников
type AvailabilityService interface {
	AvailableSlots(ctx context.Context, employee *domain.Employee, durationMinutes int, date time.Time) ([]domain.TimeSlot, error)
}

// EmployeeSelector выбирает сотрудника, когда он не указан в запросе
type EmployeeSelector interface {
	Select(ctx context.Context, catalog Catalog) (*domain.Employee, error)
}

// MetricsRecorder интерфейс для записи метрик
type MetricsRecorder interface {
	ObserveSlotsReturned(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
