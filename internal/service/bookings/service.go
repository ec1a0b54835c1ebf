package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// Метки операций для метрик
const (
	opUpdateStatus        = "update_status"
	opUpdatePaymentStatus = "update_payment_status"
	opDelete              = "delete"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	txManager    TransactionManager
	locker       Locker
	metrics      MetricsRecorder
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// location - часовой пояс бизнеса, в котором интерпретируются фильтры по датам.
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	locker Locker,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		locker:       locker,
		metrics:      metrics,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// List получает страницу бронирований по фильтру.
// Сортировка: время начала по убыванию, при равенстве - ID по убыванию.
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.BookingListResponse, error) {
	page, limit := req.Page, req.Limit
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = domain.DefaultPageSize
	}
	if page < 0 || limit < 0 || limit > domain.MaxPageSize {
		s.logger.Warn("List: invalid pagination page=%d, limit=%d", req.Page, req.Limit)
		return nil, fmt.Errorf("%w: page must be >= 1 and limit in [1, %d]", ErrInvalidInput, domain.MaxPageSize)
	}

	filter, err := s.toDomainFilter(&req.FilterRequest)
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	// COUNT и страница читаются из одного снимка
	var (
		items []*domain.Booking
		total int
	)
	err = s.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		items, total, err = s.bookingRepo.List(ctx, filter, limit, (page-1)*limit)
		return err
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	pagination := models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}

	s.logger.Info("List: fetched %d of %d bookings, page=%d/%d", len(items), total, page, pagination.TotalPages)
	return models.FromDomainBookingList(items, pagination), nil
}

// UpdateStatus меняет статус бронирования по правилам жизненного цикла.
// Установка текущего статуса - успешная операция без изменений.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", id, req.Status)

	next, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%q for booking id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking, err := s.mutate(ctx, opUpdateStatus, id, func(b *domain.Booking, now time.Time) (bool, error) {
		return b.TransitionStatus(next, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: booking id=%d now has status=%s", id, booking.Status)
	return models.FromDomainBooking(booking), nil
}

// UpdatePaymentStatus меняет статус оплаты бронирования
func (s *Service) UpdatePaymentStatus(ctx context.Context, id int64, req *models.UpdatePaymentStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdatePaymentStatus: updating booking id=%d to paymentStatus=%s", id, req.PaymentStatus)

	next, err := domain.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		s.logger.Warn("UpdatePaymentStatus: invalid paymentStatus=%q for booking id=%d", req.PaymentStatus, id)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking, err := s.mutate(ctx, opUpdatePaymentStatus, id, func(b *domain.Booking, now time.Time) (bool, error) {
		return b.TransitionPaymentStatus(next, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdatePaymentStatus: booking id=%d now has paymentStatus=%s", id, booking.PaymentStatus)
	return models.FromDomainBooking(booking), nil
}

// Delete физически удаляет бронирование
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting booking id=%d", id)

	// 1. Находим сотрудника, чтобы взять его блокировку
	booking, err := s.getBooking(ctx, "Delete", id)
	if err != nil {
		s.metrics.RecordBookingOperation(opDelete, outcome(err))
		return err
	}

	unlock, err := s.locker.Lock(ctx, domain.EmployeeLockKey(booking.EmployeeID))
	if err != nil {
		s.logger.Error("Delete: failed to lock employee=%d: %v", booking.EmployeeID, err)
		s.metrics.RecordBookingOperation(opDelete, outcome(ErrInternal))
		return fmt.Errorf("%w: Delete - lock: %v", ErrInternal, err)
	}
	defer unlock()

	// 2. Удаляем
	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
		}
		return nil
	})
	s.metrics.RecordBookingOperation(opDelete, outcome(err))
	if err != nil {
		s.logger.Warn("Delete: booking id=%d: %v", id, err)
		return err
	}

	s.logger.Info("Delete: successfully deleted booking id=%d", id)
	return nil
}

// Statistics агрегированная статистика по бронированиям, подходящим под фильтр
func (s *Service) Statistics(ctx context.Context, req *models.FilterRequest) (*models.StatisticsResponse, error) {
	filter, err := s.toDomainFilter(req)
	if err != nil {
		s.logger.Warn("Statistics: invalid filter: %v", err)
		return nil, err
	}

	var bookings []*domain.Booking
	err = s.txManager.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		bookings, err = s.bookingRepo.GetWithFilter(ctx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("Statistics: repository error: %v", err)
		return nil, fmt.Errorf("%w: Statistics - repository error: %v", ErrInternal, err)
	}

	stats := computeStatistics(bookings)
	s.logger.Info("Statistics: total=%d, completed=%d, cancelled=%d, pending=%d, revenue=%.2f",
		stats.Total, stats.Completed, stats.Cancelled, stats.Pending, stats.Revenue)
	return stats, nil
}

// mutate применяет изменение к бронированию под блокировкой сотрудника в одной транзакции.
// Бронирование перечитывается внутри транзакции, чтобы переход проверялся по актуальному статусу.
func (s *Service) mutate(
	ctx context.Context,
	operation string,
	id int64,
	apply func(b *domain.Booking, now time.Time) (bool, error),
) (*domain.Booking, error) {
	// 1. Находим сотрудника, чтобы взять его блокировку
	current, err := s.getBooking(ctx, operation, id)
	if err != nil {
		s.metrics.RecordBookingOperation(operation, outcome(err))
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, domain.EmployeeLockKey(current.EmployeeID))
	if err != nil {
		s.logger.Error("%s: failed to lock employee=%d: %v", operation, current.EmployeeID, err)
		s.metrics.RecordBookingOperation(operation, outcome(ErrInternal))
		return nil, fmt.Errorf("%w: %s - lock: %v", ErrInternal, operation, err)
	}
	defer unlock()

	// 2. Перечитываем, применяем переход и сохраняем
	var updated *domain.Booking
	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, operation, id)
		if err != nil {
			return err
		}

		changed, err := apply(booking, s.timeProvider.Now())
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
			}
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if changed {
			if err := s.bookingRepo.UpdateStatuses(ctx, booking); err != nil {
				if errors.Is(err, bookingRepo.ErrBookingNotFound) {
					return ErrBookingNotFound
				}
				return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, operation, err)
			}
		}

		updated = booking
		return nil
	})
	s.metrics.RecordBookingOperation(operation, outcome(err))
	if err != nil {
		s.logger.Warn("%s: booking id=%d: %v", operation, id, err)
		return nil, err
	}

	return updated, nil
}

// getBooking читает бронирование и переводит ошибки репозитория в ошибки сервиса
func (s *Service) getBooking(ctx context.Context, operation string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", operation, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", operation, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, operation, err)
	}
	return booking, nil
}

// toDomainFilter конвертирует фильтр запроса в доменный.
// Даты берутся в часовом поясе бизнеса: DateFrom с начала дня, DateTo до конца дня.
func (s *Service) toDomainFilter(req *models.FilterRequest) (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		EmployeeID: req.EmployeeID,
		ServiceID:  req.ServiceID,
		CustomerID: req.CustomerID,
	}

	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &status
	}

	if req.DateFrom != nil {
		from := s.startOfDay(*req.DateFrom)
		filter.StartFrom = &from
	}
	if req.DateTo != nil {
		to := s.startOfDay(*req.DateTo).AddDate(0, 0, 1)
		filter.StartTo = &to
	}
	if filter.StartFrom != nil && filter.StartTo != nil && !filter.StartFrom.Before(*filter.StartTo) {
		return filter, fmt.Errorf("%w: dateFrom must not be after dateTo", ErrInvalidInput)
	}

	return filter, nil
}

func (s *Service) startOfDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.location)
}

// outcome метка результата операции для метрик
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrBookingNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
