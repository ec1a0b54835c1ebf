package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date       string         `json:"date"` // "2025-10-15"
	ServiceID  int64          `json:"serviceId"`
	EmployeeID int64          `json:"employeeId"`
	Slots      []SlotResponse `json:"slots"`
}

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	EmployeeID int64     `json:"employeeId"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:  s.StartTime,
			EndTime:    s.EndTime,
			EmployeeID: s.EmployeeID,
		})
	}

	return &AvailableSlotsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		ServiceID:  resp.ServiceID,
		EmployeeID: resp.EmployeeID,
		Slots:      slots,
	}
}
