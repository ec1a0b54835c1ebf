package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

const opCreate = "create"

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      Catalog
	availability AvailabilityChecker
	txManager    TransactionManager
	locker       Locker
	metrics      MetricsRecorder
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// location - часовой пояс бизнеса, в котором проверяется расписание сотрудника.
func NewUseCase(
	bookingRepo BookingRepository,
	catalog Catalog,
	availability AvailabilityChecker,
	txManager TransactionManager,
	locker Locker,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		availability: availability,
		txManager:    txManager,
		locker:       locker,
		metrics:      metrics,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Повторная проверка интервала и вставка выполняются под блокировкой сотрудника
// в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	booking, err := uc.execute(ctx, req)
	uc.metrics.RecordBookingOperation(opCreate, outcome(err))
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	uc.logger.Info("CreateBooking: service=%d, employee=%d, startTime=%s",
		req.ServiceID, req.EmployeeID, req.StartTime.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 3. Получаем сотрудника
	employee, err := uc.catalog.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrEmployeeNotFound) {
			uc.logger.Warn("CreateBooking: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("CreateBooking: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}
	if !employee.IsActive {
		uc.logger.Warn("CreateBooking: employee id=%d is inactive", req.EmployeeID)
		return nil, ErrEmployeeInactive
	}

	// 4. Интервал бронирования в часовом поясе бизнеса
	start := req.StartTime.In(uc.location)
	interval := domain.Interval{
		Start: start,
		End:   start.Add(time.Duration(service.DurationMinutes) * time.Minute),
	}

	// 5. Блокировка сотрудника
	unlock, err := uc.locker.Lock(ctx, domain.EmployeeLockKey(employee.ID))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to lock employee=%d: %v", employee.ID, err)
		return nil, fmt.Errorf("%w: failed to lock employee: %v", ErrInternal, err)
	}
	defer unlock()

	// Переменная для хранения результата
	var result *domain.Booking

	// 6. Повторная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Интервал должен быть свободен на момент вставки
		if err := uc.availability.CheckInterval(txCtx, employee, interval); err != nil {
			if errors.Is(err, availability.ErrSlotUnavailable) {
				uc.logger.Warn("CreateBooking: slot %s-%s is not available for employee=%d: %v",
					interval.Start.Format(domain.TimeFormat), interval.End.Format(domain.TimeFormat), employee.ID, err)
				return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
			}
			uc.logger.Error("CreateBooking: availability check failed: %v", err)
			return fmt.Errorf("%w: availability check failed: %w", ErrInternal, err)
		}

		// 6.2. Создаем бронирование со снимком услуги и сотрудника
		now := uc.timeProvider.Now()
		booking := &domain.Booking{
			CustomerID:      req.CustomerID,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			ServiceID:       service.ID,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			DurationMinutes: service.DurationMinutes,
			EmployeeID:      employee.ID,
			EmployeeName:    employee.Name,
			StartTime:       interval.Start,
			EndTime:         interval.End,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentPending,
			Notes:           req.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		// 6.3. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)
	return result, nil
}

// outcome метка результата создания для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrEmployeeNotFound):
		return "not_found"
	case errors.Is(err, ErrServiceInactive), errors.Is(err, ErrEmployeeInactive):
		return "inactive"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
