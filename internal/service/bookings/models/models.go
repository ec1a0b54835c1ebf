package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// FilterRequest фильтр бронирований, все поля опциональны и объединяются по AND.
// DateFrom и DateTo - календарные даты, обе включительно.
type FilterRequest struct {
	Status     *string
	DateFrom   *time.Time
	DateTo     *time.Time
	EmployeeID *int64
	ServiceID  *int64
	CustomerID *int64
}

// ListRequest запрос на получение страницы бронирований
type ListRequest struct {
	FilterRequest
	Page  int // с 1, 0 - первая страница
	Limit int // 0 - размер страницы по умолчанию
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePaymentStatusRequest запрос на смену статуса оплаты
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64     `json:"id"`
	CustomerID      *int64    `json:"customerId,omitempty"`
	CustomerName    string    `json:"customerName"`
	CustomerPhone   string    `json:"customerPhone"`
	CustomerEmail   *string   `json:"customerEmail,omitempty"`
	ServiceID       int64     `json:"serviceId"`
	ServiceName     string    `json:"serviceName"`
	ServicePrice    float64   `json:"servicePrice"`
	DurationMinutes int       `json:"durationMinutes"`
	EmployeeID      int64     `json:"employeeId"`
	EmployeeName    string    `json:"employeeName"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Pagination параметры страницы
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// BookingListResponse страница бронирований
type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Pagination Pagination        `json:"pagination"`
}

// ServiceStat самая популярная услуга
type ServiceStat struct {
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	Count       int    `json:"count"`
}

// EmployeeStat самый загруженный сотрудник
type EmployeeStat struct {
	EmployeeID   int64  `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Count        int    `json:"count"`
}

// StatisticsResponse агрегированная статистика бронирований
type StatisticsResponse struct {
	Total              int           `json:"total"`
	Completed          int           `json:"completed"`
	Cancelled          int           `json:"cancelled"`
	Pending            int           `json:"pending"` // pending + confirmed
	Revenue            float64       `json:"revenue"` // completed и оплаченные
	MostPopularService *ServiceStat  `json:"mostPopularService"`
	MostActiveEmployee *EmployeeStat `json:"mostActiveEmployee"`
}

// DeleteResponse ответ на удаление
type DeleteResponse struct {
	Success bool `json:"success"`
}

// FromDomainBooking конвертирует доменную модель в ответ
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CustomerEmail:   b.CustomerEmail,
		ServiceID:       b.ServiceID,
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		DurationMinutes: b.DurationMinutes,
		EmployeeID:      b.EmployeeID,
		EmployeeName:    b.EmployeeName,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует страницу бронирований в ответ
func FromDomainBookingList(bookings []*domain.Booking, pagination Pagination) *BookingListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, *FromDomainBooking(b))
	}
	return &BookingListResponse{
		Bookings:   result,
		Pagination: pagination,
	}
}
