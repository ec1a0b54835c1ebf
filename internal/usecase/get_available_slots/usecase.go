package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	catalog      Catalog
	availability AvailabilityService
	selector     EmployeeSelector
	metrics      MetricsRecorder
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// selector == nil означает выбор первого активного сотрудника, location == nil - UTC.
func NewUseCase(
	catalog Catalog,
	availability AvailabilityService,
	selector EmployeeSelector,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	if selector == nil {
		selector = FirstActiveSelector{}
	}
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		catalog:      catalog,
		availability: availability,
		selector:     selector,
		metrics:      metrics,
		location:     location,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: service=%d, date=%s", req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата в часовом поясе бизнеса
	y, m, d := req.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, uc.location)

	// 3. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. Получаем сотрудника: указанного в запросе или выбранного автоматически
	employee, err := uc.resolveEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	// 5. Считаем свободные слоты
	timeSlots, err := uc.availability.AvailableSlots(ctx, employee, service.DurationMinutes, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to compute slots for employee=%d: %v", employee.ID, err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	slots := make([]Slot, 0, len(timeSlots))
	for _, s := range timeSlots {
		slots = append(slots, Slot{
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			EmployeeID: s.EmployeeID,
		})
	}
	uc.metrics.ObserveSlotsReturned(len(slots))

	uc.logger.Info("GetAvailableSlots: %d slots for service=%d, employee=%d, date=%s",
		len(slots), service.ID, employee.ID, date.Format(domain.DateFormat))

	return &Response{
		Date:       date,
		ServiceID:  service.ID,
		EmployeeID: employee.ID,
		Slots:      slots,
	}, nil
}

// resolveEmployee получает сотрудника по ID или через EmployeeSelector
func (uc *UseCase) resolveEmployee(ctx context.Context, employeeID *int64) (*domain.Employee, error) {
	if employeeID == nil {
		employee, err := uc.selector.Select(ctx, uc.catalog)
		if err != nil {
			if errors.Is(err, ErrNoActiveEmployee) {
				uc.logger.Warn("GetAvailableSlots: no active employee found")
				return nil, ErrNoActiveEmployee
			}
			uc.logger.Error("GetAvailableSlots: failed to select employee: %v", err)
			return nil, fmt.Errorf("%w: failed to select employee: %v", ErrInternal, err)
		}
		return employee, nil
	}

	employee, err := uc.catalog.GetEmployee(ctx, *employeeID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableSlots: employee id=%d not found", *employeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get employee id=%d: %v", *employeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}
	if !employee.IsActive {
		uc.logger.Warn("GetAvailableSlots: employee id=%d is inactive", *employeeID)
		return nil, ErrEmployeeInactive
	}
	return employee, nil
}
