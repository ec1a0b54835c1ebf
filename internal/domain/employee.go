package domain

import "fmt"

// Employee is a staff member who performs services.
// Managed by the employee directory; read-only here.
type Employee struct {
	ID              int64
	Name            string
	IsActive        bool
	Specializations []string
	Schedule        WeeklySchedule
}

// Service is a bookable service from the catalog
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool
}

// EmployeeLockKey is the key under which all booking mutations of an employee are serialized
func EmployeeLockKey(employeeID int64) string {
	return fmt.Sprintf("employee:%d", employeeID)
}
