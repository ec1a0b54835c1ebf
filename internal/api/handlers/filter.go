package handlers

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
)

// ParseBookingsFilter читает фильтр бронирований из query параметров
func ParseBookingsFilter(r *http.Request) (*models.FilterRequest, error) {
	var (
		filter = &models.FilterRequest{Status: QueryString(r, "status")}
		err    error
	)

	if filter.DateFrom, err = QueryDate(r, "dateFrom"); err != nil {
		return nil, err
	}
	if filter.DateTo, err = QueryDate(r, "dateTo"); err != nil {
		return nil, err
	}
	if filter.EmployeeID, err = QueryInt64(r, "employeeId"); err != nil {
		return nil, err
	}
	if filter.ServiceID, err = QueryInt64(r, "serviceId"); err != nil {
		return nil, err
	}
	if filter.CustomerID, err = QueryInt64(r, "customerId"); err != nil {
		return nil, err
	}

	return filter, nil
}
