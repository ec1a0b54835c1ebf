package create_booking

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	ServiceID     int64     // ID услуги
	EmployeeID    int64     // ID сотрудника
	StartTime     time.Time // Время начала (переводится в часовой пояс бизнеса)
	CustomerID    *int64    // ID клиента (опционально)
	CustomerName  string    // Имя клиента
	CustomerPhone string    // Телефон клиента
	CustomerEmail *string   // Email клиента (опционально)
	Notes         *string   // Дополнительные заметки (опционально)
}
