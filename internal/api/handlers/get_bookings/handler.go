package get_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
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

// Handle GET /api/v1/bookings?status=&dateFrom=&dateTo=&employeeId=&serviceId=&customerId=&page=&limit=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter, err := handlers.ParseBookingsFilter(r)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid filter: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	page, err := handlers.QueryInt(r, "page")
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid page: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}
	limit, err := handlers.QueryInt(r, "limit")
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid limit: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.List(r.Context(), &models.ListRequest{
		FilterRequest: *filter,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Returned %d of %d bookings", len(result.Bookings), result.Pagination.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
