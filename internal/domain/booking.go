package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// PaymentStatus represents the payment state of a booking
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Booking represents a service appointment with an employee
type Booking struct {
	ID int64

	// Customer data as entered at booking time
	CustomerID    *int64
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	// Snapshot of the service at creation time
	ServiceID       int64
	ServiceName     string
	ServicePrice    float64
	DurationMinutes int

	// Snapshot of the employee at creation time
	EmployeeID   int64
	EmployeeName string

	StartTime     time.Time
	EndTime       time.Time
	Status        BookingStatus
	PaymentStatus PaymentStatus
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Interval returns the half-open interval [StartTime, EndTime) occupied by the booking
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsOccupying returns true if the booking blocks its employee's calendar
func (b *Booking) IsOccupying() bool {
	return b.Status.IsOccupying()
}

// IsRevenue returns true if the booking counts towards revenue
func (b *Booking) IsRevenue() bool {
	return b.Status == StatusCompleted && b.PaymentStatus == PaymentPaid
}

// Clone returns a deep copy of the booking
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.CustomerID != nil {
		id := *b.CustomerID
		c.CustomerID = &id
	}
	if b.CustomerEmail != nil {
		email := *b.CustomerEmail
		c.CustomerEmail = &email
	}
	if b.Notes != nil {
		notes := *b.Notes
		c.Notes = &notes
	}
	return &c
}

// BookingsFilter conjunctive filter for booking queries.
// StartFrom is inclusive, StartTo is exclusive; both compare against StartTime.
type BookingsFilter struct {
	Status     *BookingStatus
	StartFrom  *time.Time
	StartTo    *time.Time
	EmployeeID *int64
	ServiceID  *int64
	CustomerID *int64
}

// Matches reports whether the booking satisfies every set criterion
func (f BookingsFilter) Matches(b *Booking) bool {
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.StartFrom != nil && b.StartTime.Before(*f.StartFrom) {
		return false
	}
	if f.StartTo != nil && !b.StartTime.Before(*f.StartTo) {
		return false
	}
	if f.EmployeeID != nil && b.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.ServiceID != nil && b.ServiceID != *f.ServiceID {
		return false
	}
	if f.CustomerID != nil && (b.CustomerID == nil || *b.CustomerID != *f.CustomerID) {
		return false
	}
	return true
}
