package bookings

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// computeStatistics считает статистику по списку бронирований.
// При равном количестве побеждает услуга/сотрудник, встреченные первыми в порядке списка.
func computeStatistics(bookings []*domain.Booking) *models.StatisticsResponse {
	stats := &models.StatisticsResponse{Total: len(bookings)}

	type counter struct {
		id    int64
		name  string
		count int
	}
	services := make(map[int64]*counter)
	employees := make(map[int64]*counter)
	var serviceOrder, employeeOrder []*counter

	for _, b := range bookings {
		switch b.Status {
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusCancelled:
			stats.Cancelled++
		case domain.StatusPending, domain.StatusConfirmed:
			stats.Pending++
		}
		if b.IsRevenue() {
			stats.Revenue += b.ServicePrice
		}

		if c, ok := services[b.ServiceID]; ok {
			c.count++
		} else {
			c = &counter{id: b.ServiceID, name: b.ServiceName, count: 1}
			services[b.ServiceID] = c
			serviceOrder = append(serviceOrder, c)
		}

		if c, ok := employees[b.EmployeeID]; ok {
			c.count++
		} else {
			c = &counter{id: b.EmployeeID, name: b.EmployeeName, count: 1}
			employees[b.EmployeeID] = c
			employeeOrder = append(employeeOrder, c)
		}
	}

	// строгое сравнение сохраняет первого встреченного при равенстве
	var topService, topEmployee *counter
	for _, c := range serviceOrder {
		if topService == nil || c.count > topService.count {
			topService = c
		}
	}
	for _, c := range employeeOrder {
		if topEmployee == nil || c.count > topEmployee.count {
			topEmployee = c
		}
	}

	if topService != nil {
		stats.MostPopularService = &models.ServiceStat{
			ServiceID:   topService.id,
			ServiceName: topService.name,
			Count:       topService.count,
		}
	}
	if topEmployee != nil {
		stats.MostActiveEmployee = &models.EmployeeStat{
			EmployeeID:   topEmployee.id,
			EmployeeName: topEmployee.name,
			Count:        topEmployee.count,
		}
	}

	return stats
}
