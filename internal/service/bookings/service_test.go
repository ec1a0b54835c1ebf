package bookings

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/keylock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type recordedOperation struct {
	operation string
	outcome   string
}

type stubMetrics struct {
	mu  sync.Mutex
	ops []recordedOperation
}

func (m *stubMetrics) RecordBookingOperation(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ops = append(m.ops, recordedOperation{operation, outcome})
}

var (
	createdAt = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	now       = time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)
)

func at(day, h, m int) time.Time {
	return time.Date(2025, 10, day, h, m, 0, 0, time.UTC)
}

type fixture struct {
	svc     *Service
	repo    *bookingRepo.MemoryRepository
	metrics *stubMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := bookingRepo.NewMemoryRepository()
	m := &stubMetrics{}
	svc := NewService(repo, txmanager.Noop{}, keylock.New(), m, time.UTC, logger.NewNop())
	svc.timeProvider = &fixedTimeProvider{now: now}
	return &fixture{svc: svc, repo: repo, metrics: m}
}

func (f *fixture) insert(t *testing.T, b *domain.Booking) *domain.Booking {
	t.Helper()
	created, err := f.repo.Create(context.Background(), b)
	require.NoError(t, err)
	return created
}

func booking(employeeID, serviceID int64, start time.Time, status domain.BookingStatus, payment domain.PaymentStatus) *domain.Booking {
	return &domain.Booking{
		CustomerName:    "Ivan",
		CustomerPhone:   "+79990000000",
		ServiceID:       serviceID,
		ServiceName:     "service",
		ServicePrice:    1000,
		DurationMinutes: 60,
		EmployeeID:      employeeID,
		EmployeeName:    "employee",
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		Status:          status,
		PaymentStatus:   payment,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed transition", func(t *testing.T) {
		f := newFixture(t)
		b := f.insert(t, booking(1, 1, at(15, 10, 0), domain.StatusPending, domain.PaymentPending))

		resp, err := f.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, now, resp.UpdatedAt)

		stored, err := f.repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, stored.Status)
		assert.Equal(t, []recordedOperation{{opUpdateStatus, "success"}}, f.metrics.ops)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		f := newFixture(t)
		b := f.insert(t, booking(1, 1, at(15, 10, 0), domain.StatusConfirmed, domain.PaymentPending))

		resp, err := f.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)

		stored, err := f.repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b, stored)
		assert.Equal(t, createdAt, stored.UpdatedAt)
	})

	t.Run("cancelled to completed is rejected", func(t *testing.T) {
		f := newFixture(t)
		b := f.insert(t, booking(1, 1, at(15, 10, 0), domain.StatusCancelled, domain.PaymentPending))

		_, err := f.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: "completed"})
		assert.ErrorIs(t, err, ErrInvalidTransition)

		stored, err := f.repo.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b, stored)
		assert.Equal(t, []recordedOperation{{opUpdateStatus, "invalid_transition"}}, f.metrics.ops)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)
		b := f.insert(t, booking(1, 1, at(15, 10, 0), domain.StatusPending, domain.PaymentPending))

		_, err := f.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: "archived"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateStatus(ctx, 404, &models.UpdateStatusRequest{Status: "confirmed"})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	active := f.insert(t, booking(1, 1, at(15, 10, 0), domain.StatusConfirmed, domain.PaymentPending))
	cancelled := f.insert(t, booking(1, 1, at(15, 12, 0), domain.StatusCancelled, domain.PaymentPaid))

	resp, err := f.svc.UpdatePaymentStatus(ctx, active.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "paid"})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)

	_, err = f.svc.UpdatePaymentStatus(ctx, active.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "pending"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.UpdatePaymentStatus(ctx, active.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resp, err = f.svc.UpdatePaymentStatus(ctx, cancelled.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.PaymentStatus)

	_, err = f.svc.UpdatePaymentStatus(ctx, cancelled.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_InvalidTransitionMessage(t *testing.T) {
	f := newFixture(t)
	b := f.insert(t, booking(1, 1, at(15, 10, 0), domain.StatusPending, domain.PaymentPending))

	_, err := f.svc.UpdatePaymentStatus(context.Background(), b.ID, &models.UpdatePaymentStatusRequest{PaymentStatus: "cancelled"})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 1, strings.Count(err.Error(), domain.ErrInvalidTransition.Error()), err.Error())
	assert.Contains(t, err.Error(), "payment pending -> cancelled")
}

// readOnlyRecorder считает вызовы DoReadOnly
type readOnlyRecorder struct {
	txmanager.Noop
	readOnly int
}

func (r *readOnlyRecorder) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	r.readOnly++
	return fn(ctx)
}

func TestService_ListReadsInOneTransaction(t *testing.T) {
	repo := bookingRepo.NewMemoryRepository()
	tx := &readOnlyRecorder{}
	svc := NewService(repo, tx, keylock.New(), &stubMetrics{}, time.UTC, logger.NewNop())

	_, err := repo.Create(context.Background(), booking(1, 1, at(15, 10, 0), domain.StatusPending, domain.PaymentPending))
	require.NoError(t, err)

	resp, err := svc.List(context.Background(), &models.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, 1, tx.readOnly)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.insert(t, booking(1, 1, at(15, 10, 0), domain.StatusPending, domain.PaymentPending))

	require.NoError(t, f.svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, b.ID), ErrBookingNotFound)

	_, err := f.svc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_GetByID(t *testing.T) {
	f := newFixture(t)
	b := booking(2, 3, at(15, 10, 0), domain.StatusPending, domain.PaymentPending)
	b.Notes = ptr.Ptr("bring the drill")
	b = f.insert(t, b)

	resp, err := f.svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, resp.ID)
	assert.Equal(t, int64(2), resp.EmployeeID)
	assert.Equal(t, "bring the drill", *resp.Notes)
	assert.Equal(t, at(15, 11, 0), resp.EndTime)
}

func TestService_ListPagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 25; i++ {
		f.insert(t, booking(1, 1, at(1+i, 10, 0), domain.StatusPending, domain.PaymentPending))
	}

	resp, err := f.svc.List(context.Background(), &models.ListRequest{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 10)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3}, resp.Pagination)
	assert.Equal(t, at(15, 10, 0), resp.Bookings[0].StartTime)

	resp, err = f.svc.List(context.Background(), &models.ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.Pagination{Page: 1, Limit: domain.DefaultPageSize, Total: 25, TotalPages: 3}, resp.Pagination)

	resp, err = f.svc.List(context.Background(), &models.ListRequest{Page: 4, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, resp.Bookings)
	assert.Empty(t, resp.Bookings)
}

func TestService_ListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.insert(t, booking(1, 1, at(14, 23, 59), domain.StatusPending, domain.PaymentPending))
	f.insert(t, booking(1, 1, at(15, 0, 0), domain.StatusPending, domain.PaymentPending))
	f.insert(t, booking(1, 2, at(15, 23, 30), domain.StatusConfirmed, domain.PaymentPending))
	f.insert(t, booking(2, 1, at(15, 12, 0), domain.StatusPending, domain.PaymentPending))
	f.insert(t, booking(1, 1, at(16, 0, 0), domain.StatusPending, domain.PaymentPending))

	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	resp, err := f.svc.List(ctx, &models.ListRequest{FilterRequest: models.FilterRequest{
		DateFrom:   &day,
		DateTo:     &day,
		EmployeeID: ptr.Ptr(int64(1)),
	}})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, at(15, 23, 30), resp.Bookings[0].StartTime)
	assert.Equal(t, at(15, 0, 0), resp.Bookings[1].StartTime)

	resp, err = f.svc.List(ctx, &models.ListRequest{FilterRequest: models.FilterRequest{
		Status:    ptr.Ptr("confirmed"),
		ServiceID: ptr.Ptr(int64(2)),
	}})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)

	tests := []struct {
		name string
		req  *models.ListRequest
	}{
		{name: "limit above max", req: &models.ListRequest{Limit: domain.MaxPageSize + 1}},
		{name: "negative page", req: &models.ListRequest{Page: -1}},
		{name: "unknown status", req: &models.ListRequest{FilterRequest: models.FilterRequest{Status: ptr.Ptr("done")}}},
		{name: "dateFrom after dateTo", req: &models.ListRequest{FilterRequest: models.FilterRequest{
			DateFrom: ptr.Ptr(day.AddDate(0, 0, 1)),
			DateTo:   &day,
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.List(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_ListDateFilterUsesBusinessTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	repo := bookingRepo.NewMemoryRepository()
	svc := NewService(repo, txmanager.Noop{}, keylock.New(), &stubMetrics{}, loc, logger.NewNop())
	ctx := context.Background()

	// 2025-10-14 22:00 UTC = 2025-10-15 01:00 UTC+3
	_, err := repo.Create(ctx, booking(1, 1, time.Date(2025, 10, 14, 22, 0, 0, 0, time.UTC), domain.StatusPending, domain.PaymentPending))
	require.NoError(t, err)

	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	resp, err := svc.List(ctx, &models.ListRequest{FilterRequest: models.FilterRequest{DateFrom: &day, DateTo: &day}})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

func TestService_Statistics(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)
		stats, err := f.svc.Statistics(ctx, &models.FilterRequest{})
		require.NoError(t, err)
		assert.Zero(t, stats.Total)
		assert.Zero(t, stats.Revenue)
		assert.Nil(t, stats.MostPopularService)
		assert.Nil(t, stats.MostActiveEmployee)
	})

	t.Run("counts and tie-break", func(t *testing.T) {
		f := newFixture(t)
		// в порядке списка (startTime DESC) первым встречается сотрудник 2 и услуга 20
		f.insert(t, booking(1, 10, at(10, 10, 0), domain.StatusCompleted, domain.PaymentPaid))
		f.insert(t, booking(1, 10, at(11, 10, 0), domain.StatusCompleted, domain.PaymentRefunded))
		f.insert(t, booking(2, 20, at(12, 10, 0), domain.StatusCancelled, domain.PaymentCancelled))
		f.insert(t, booking(2, 20, at(13, 10, 0), domain.StatusConfirmed, domain.PaymentPaid))
		f.insert(t, booking(3, 30, at(9, 10, 0), domain.StatusPending, domain.PaymentPending))
		f.insert(t, booking(3, 10, at(8, 10, 0), domain.StatusNoShow, domain.PaymentPending))

		stats, err := f.svc.Statistics(ctx, &models.FilterRequest{})
		require.NoError(t, err)
		assert.Equal(t, 6, stats.Total)
		assert.Equal(t, 2, stats.Completed)
		assert.Equal(t, 1, stats.Cancelled)
		assert.Equal(t, 2, stats.Pending)
		assert.Equal(t, 1000.0, stats.Revenue)

		require.NotNil(t, stats.MostPopularService)
		assert.Equal(t, int64(10), stats.MostPopularService.ServiceID)
		assert.Equal(t, 3, stats.MostPopularService.Count)

		require.NotNil(t, stats.MostActiveEmployee)
		assert.Equal(t, int64(2), stats.MostActiveEmployee.EmployeeID)
		assert.Equal(t, 2, stats.MostActiveEmployee.Count)
	})

	t.Run("filtered", func(t *testing.T) {
		f := newFixture(t)
		f.insert(t, booking(1, 10, at(10, 10, 0), domain.StatusCompleted, domain.PaymentPaid))
		f.insert(t, booking(2, 10, at(10, 12, 0), domain.StatusCompleted, domain.PaymentPaid))

		stats, err := f.svc.Statistics(ctx, &models.FilterRequest{EmployeeID: ptr.Ptr(int64(2))})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Total)
		assert.Equal(t, 1000.0, stats.Revenue)
	})
}

func TestComputeStatistics_RevenueProperty(t *testing.T) {
	statuses := []domain.BookingStatus{
		domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled, domain.StatusNoShow,
	}
	payments := []domain.PaymentStatus{
		domain.PaymentPending, domain.PaymentPaid, domain.PaymentRefunded, domain.PaymentCancelled,
	}
	rng := rand.New(rand.NewPCG(42, 7))

	for iteration := 0; iteration < 200; iteration++ {
		n := rng.IntN(40)
		list := make([]*domain.Booking, 0, n)
		for i := 0; i < n; i++ {
			list = append(list, &domain.Booking{
				ID:            int64(i + 1),
				ServiceID:     rng.Int64N(4) + 1,
				EmployeeID:    rng.Int64N(3) + 1,
				ServicePrice:  float64(rng.IntN(500000)) / 100,
				Status:        statuses[rng.IntN(len(statuses))],
				PaymentStatus: payments[rng.IntN(len(payments))],
			})
		}

		var want float64
		var total, completed, cancelled, pending int
		for _, b := range list {
			total++
			if b.Status == domain.StatusCompleted && b.PaymentStatus == domain.PaymentPaid {
				want += b.ServicePrice
			}
			switch b.Status {
			case domain.StatusCompleted:
				completed++
			case domain.StatusCancelled:
				cancelled++
			case domain.StatusPending, domain.StatusConfirmed:
				pending++
			}
		}

		stats := computeStatistics(list)
		assert.InDelta(t, want, stats.Revenue, 1e-6, "iteration %d", iteration)
		assert.Equal(t, total, stats.Total)
		assert.Equal(t, completed, stats.Completed)
		assert.Equal(t, cancelled, stats.Cancelled)
		assert.Equal(t, pending, stats.Pending)
		assert.Equal(t, n == 0, stats.MostPopularService == nil)
		assert.Equal(t, n == 0, stats.MostActiveEmployee == nil)
	}
}

func TestService_FreedSlotReappears(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	day := &domain.DaySchedule{StartTime: "09:00", EndTime: "12:00"}
	employee := &domain.Employee{ID: 1, Name: "Ivan", IsActive: true}
	employee.Schedule[time.Wednesday] = day
	avail := availability.NewService(f.repo, 30, logger.NewNop())

	b := f.insert(t, booking(1, 1, at(15, 10, 0), domain.StatusConfirmed, domain.PaymentPending))
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	hasSlotAt := func(slots []domain.TimeSlot, start time.Time) bool {
		for _, s := range slots {
			if s.StartTime.Equal(start) {
				return true
			}
		}
		return false
	}

	before, err := avail.AvailableSlots(ctx, employee, 60, date)
	require.NoError(t, err)
	assert.False(t, hasSlotAt(before, at(15, 10, 0)))

	_, err = f.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	after, err := avail.AvailableSlots(ctx, employee, 60, date)
	require.NoError(t, err)
	assert.True(t, hasSlotAt(after, at(15, 10, 0)))
	assert.Len(t, after, 5)
}

func TestService_ConcurrentTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.insert(t, booking(1, 1, at(15, 10, 0), domain.StatusPending, domain.PaymentPending))

	// оба перехода разрешены из pending, но ведут в терминальные статусы:
	// второй запрос должен увидеть результат первого
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, status := range []string{"cancelled", "no_show"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.UpdateStatus(ctx, b.ID, &models.UpdateStatusRequest{Status: status})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)
}
