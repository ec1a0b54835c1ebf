package create_booking

import (
	"time"

	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     int64   `json:"serviceId" validate:"required,gt=0"`
	EmployeeID    int64   `json:"employeeId" validate:"required,gt=0"`
	StartTime     string  `json:"startTime" validate:"required"` // RFC 3339, "2025-10-15T10:00:00+03:00"
	CustomerID    *int64  `json:"customerId,omitempty" validate:"omitempty,gt=0"`
	CustomerName  string  `json:"customerName" validate:"required,max=200"`
	CustomerPhone string  `json:"customerPhone" validate:"required,max=32"`
	CustomerEmail *string `json:"customerEmail,omitempty" validate:"omitempty,email"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ServiceID:     r.ServiceID,
		EmployeeID:    r.EmployeeID,
		StartTime:     startTime,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}, nil
}
