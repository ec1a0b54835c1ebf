package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// FirstActiveSelector выбирает первого активного сотрудника в порядке справочника
type FirstActiveSelector struct{}

// Select возвращает первого активного сотрудника или ErrNoActiveEmployee
func (FirstActiveSelector) Select(ctx context.Context, catalog Catalog) (*domain.Employee, error) {
	employees, err := catalog.ListActiveEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		if e.IsActive {
			return e, nil
		}
	}
	return nil, ErrNoActiveEmployee
}
