package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// Catalog интерфейс справочника услуг и сотрудников
type Catalog interface {
	GetService(ctx context.Context, serviceID int64) (*domain.Service, error)
	GetEmployee(ctx context.Context, employeeID int64) (*domain.Employee, error)
}

// AvailabilityChecker проверяет, что интервал свободен у сотрудника
type AvailabilityChecker interface {
	CheckInterval(ctx context.Context, employee *domain.Employee, interval domain.Interval) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker сериализует изменения бронирований одного сотрудника
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// MetricsRecorder интерфейс для записи метрик
type MetricsRecorder interface {
	RecordBookingOperation(operation, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
