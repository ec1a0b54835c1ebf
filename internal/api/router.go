package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
)

// Handlers обработчики HTTP API
type Handlers struct {
	GetAvailableSlots    http.HandlerFunc
	CreateBooking        http.HandlerFunc
	GetBookings          http.HandlerFunc
	GetBookingStatistics http.HandlerFunc
	GetBooking           http.HandlerFunc
	UpdateBookingStatus  http.HandlerFunc
	UpdatePaymentStatus  http.HandlerFunc
	DeleteBooking        http.HandlerFunc
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewRouter настраивает маршруты API.
// m == nil отключает HTTP метрики и эндпоинт metricsPath.
func NewRouter(h Handlers, m *metrics.Metrics, metricsPath string, log Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(log))

	// Добавляем metrics middleware (если метрики включены)
	if m != nil {
		r.Use(middleware.MetricsMiddleware(m))
		r.Handle(metricsPath, m.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", metricsPath)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Доступные слоты
	api.HandleFunc("/available-slots", h.GetAvailableSlots).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.GetBookings).Methods(http.MethodGet)
	// statistics регистрируется до {bookingId}, чтобы не совпасть с ним
	api.HandleFunc("/bookings/statistics", h.GetBookingStatistics).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", h.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}", h.DeleteBooking).Methods(http.MethodDelete)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/status", h.UpdateBookingStatus).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId:[0-9]+}/payment-status", h.UpdatePaymentStatus).Methods(http.MethodPatch)

	return r
}
