package get_booking_statistics

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/statistics?status=&dateFrom=&dateTo=&employeeId=&serviceId=&customerId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter, err := handlers.ParseBookingsFilter(r)
	if err != nil {
		h.logger.Warn("GET /bookings/statistics - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	stats, err := h.service.Statistics(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings/statistics - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /bookings/statistics - Failed to compute statistics: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/statistics - total=%d, revenue=%.2f", stats.Total, stats.Revenue)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
