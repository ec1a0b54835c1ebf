package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID  = "некорректный или отсутствующий serviceId"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidEmployeeID = "некорректный employeeId"
	msgServiceNotFound   = "услуга не найдена"
	msgServiceInactive   = "услуга недоступна для бронирования"
	msgEmployeeNotFound  = "сотрудник не найден"
	msgEmployeeInactive  = "сотрудник недоступен для бронирования"
	msgNoActiveEmployee  = "нет доступных сотрудников"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots?serviceId=1&date=2025-10-15&employeeId=2
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil || serviceID == nil || *serviceID <= 0 {
		h.logger.Warn("GET /available-slots - Invalid serviceId: %q", r.URL.Query().Get("serviceId"))
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := handlers.QueryDate(r, "date")
	if err != nil || date == nil {
		h.logger.Warn("GET /available-slots - Invalid date: %q", r.URL.Query().Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	employeeID, err := handlers.QueryInt64(r, "employeeId")
	if err != nil || (employeeID != nil && *employeeID <= 0) {
		h.logger.Warn("GET /available-slots - Invalid employeeId: %q", r.URL.Query().Get("employeeId"))
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		ServiceID:  *serviceID,
		Date:       *date,
		EmployeeID: employeeID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: service_id=%d", *serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /available-slots - Service inactive: service_id=%d", *serviceID)
			handlers.RespondInactive(w, msgServiceInactive)

		case errors.Is(err, getAvailableSlots.ErrEmployeeNotFound):
			h.logger.Warn("GET /available-slots - Employee not found: employee_id=%d", *employeeID)
			handlers.RespondNotFound(w, msgEmployeeNotFound)

		case errors.Is(err, getAvailableSlots.ErrEmployeeInactive):
			h.logger.Warn("GET /available-slots - Employee inactive: employee_id=%d", *employeeID)
			handlers.RespondInactive(w, msgEmployeeInactive)

		case errors.Is(err, getAvailableSlots.ErrNoActiveEmployee):
			h.logger.Warn("GET /available-slots - No active employee")
			handlers.RespondNotFound(w, msgNoActiveEmployee)

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: service_id=%d, error=%v", *serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /available-slots - Returned %d slots: service_id=%d, employee_id=%d",
		len(result.Slots), result.ServiceID, result.EmployeeID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
