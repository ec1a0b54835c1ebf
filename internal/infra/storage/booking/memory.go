package booking

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// MemoryRepository хранилище бронирований в памяти процесса.
// Читатели получают копии записей, поэтому никогда не видят частично записанное бронирование.
type MemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]*domain.Booking
}

// NewMemoryRepository создает пустое хранилище
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:   1,
		bookings: make(map[int64]*domain.Booking),
	}
}

// Create сохраняет копию бронирования и присваивает ему ID
func (r *MemoryRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking.ID = r.nextID
	r.nextID++
	r.bookings[booking.ID] = booking.Clone()

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return booking.Clone(), nil
}

// GetByEmployeeAndDateRange получает бронирования сотрудника, пересекающиеся с интервалом [from, to)
func (r *MemoryRepository) GetByEmployeeAndDateRange(_ context.Context, employeeID int64, from, to time.Time) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	window := domain.Interval{Start: from, End: to}
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if b.EmployeeID == employeeID && window.Overlaps(b.Interval()) {
			result = append(result, b.Clone())
		}
	}

	slices.SortFunc(result, func(a, b *domain.Booking) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

// GetWithFilter получает все бронирования по фильтру, сначала самые поздние
func (r *MemoryRepository) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filtered(filter), nil
}

// List получает страницу бронирований по фильтру и общее количество подходящих бронирований
func (r *MemoryRepository) List(_ context.Context, filter domain.BookingsFilter, limit, offset int) ([]*domain.Booking, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.filtered(filter)
	total := len(all)
	if offset >= total {
		return []*domain.Booking{}, total, nil
	}

	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

// UpdateStatuses обновляет статус, статус оплаты и время изменения бронирования
func (r *MemoryRepository) UpdateStatuses(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[booking.ID]
	if !ok {
		return ErrBookingNotFound
	}

	updated := stored.Clone()
	updated.Status = booking.Status
	updated.PaymentStatus = booking.PaymentStatus
	updated.UpdatedAt = booking.UpdatedAt
	r.bookings[booking.ID] = updated

	return nil
}

// Delete удаляет бронирование
func (r *MemoryRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	delete(r.bookings, id)

	return nil
}

// filtered возвращает копии подходящих бронирований: время начала по убыванию, затем ID по убыванию.
// Вызывается под блокировкой чтения.
func (r *MemoryRepository) filtered(filter domain.BookingsFilter) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if filter.Matches(b) {
			result = append(result, b.Clone())
		}
	}

	slices.SortFunc(result, func(a, b *domain.Booking) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return result
}
