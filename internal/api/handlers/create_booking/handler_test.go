package create_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type stubUseCase struct {
	got  *createBooking.Request
	resp *models.BookingResponse
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *createBooking.Request) (*models.BookingResponse, error) {
	s.got = req
	return s.resp, s.err
}

const validBody = `{
	"serviceId": 1,
	"employeeId": 2,
	"startTime": "2025-10-15T10:00:00+03:00",
	"customerName": "Ivan",
	"customerPhone": "+79990000000",
	"customerEmail": "ivan@example.com",
	"notes": "hi"
}`

func TestHandler_Created(t *testing.T) {
	uc := &stubUseCase{resp: &models.BookingResponse{ID: 7, EmployeeID: 2, Status: "pending", PaymentStatus: "pending"}}
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":7`)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.ServiceID)
	assert.Equal(t, int64(2), uc.got.EmployeeID)
	assert.True(t, uc.got.StartTime.Equal(time.Date(2025, 10, 15, 7, 0, 0, 0, time.UTC)))
	assert.Equal(t, "ivan@example.com", *uc.got.CustomerEmail)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		ucErr      error
		wantStatus int
		wantCode   string
	}{
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "missing name", body: `{"serviceId":1,"employeeId":2,"startTime":"2025-10-15T10:00:00Z","customerPhone":"1"}`,
			wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "bad email", body: `{"serviceId":1,"employeeId":2,"startTime":"2025-10-15T10:00:00Z","customerName":"a","customerPhone":"1","customerEmail":"x"}`,
			wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "bad start time", body: `{"serviceId":1,"employeeId":2,"startTime":"15.10.2025 10:00","customerName":"a","customerPhone":"1"}`,
			wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "slot unavailable", body: validBody, ucErr: createBooking.ErrSlotUnavailable,
			wantStatus: http.StatusConflict, wantCode: "SLOT_UNAVAILABLE"},
		{name: "service not found", body: validBody, ucErr: createBooking.ErrServiceNotFound,
			wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "employee inactive", body: validBody, ucErr: createBooking.ErrEmployeeInactive,
			wantStatus: http.StatusUnprocessableEntity, wantCode: "INACTIVE"},
		{name: "usecase validation", body: validBody, ucErr: createBooking.ErrInvalidInput,
			wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "internal", body: validBody, ucErr: createBooking.ErrInternal,
			wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&stubUseCase{err: tt.ucErr}, logger.NewNop())
			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
		})
	}
}
